package service

import (
	"fmt"
	"math/rand"
	"strings"
)

const codeNameLimit = 10

// GenerateReferralCode builds a candidate code from the applicant's first
// name: uppercased letters (up to 10) plus 4 random digits, e.g. SARAH4821.
// Not guaranteed unique by construction; callers must check the store.
func GenerateReferralCode(firstName string, rng *rand.Rand) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(firstName) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == codeNameLimit {
				break
			}
		}
	}
	base := b.String()
	if base == "" {
		base = "MEMBER"
	}
	return fmt.Sprintf("%s%d", base, 1000+rng.Intn(9000))
}
