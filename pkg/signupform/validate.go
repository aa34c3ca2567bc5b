package signupform

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	minAge        = 18
	maxAge        = 100
	maxOccupation = 500
)

var (
	nameRe      = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	instagramRe = regexp.MustCompile(`^[A-Za-z0-9._]+$`)
	linkedinRe  = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/in/[A-Za-z0-9\-]+/?$`)
	codeRe      = regexp.MustCompile(`^[A-Z0-9_]{1,32}$`)
)

// AgeAt returns the age in whole years at the given instant.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	return age
}

// ValidateStep runs the pure per-step predicates over the draft data and
// returns a field -> message map; an empty map means the step is valid.
// Confirmation has nothing to validate.
func ValidateStep(step Step, d *Data, now time.Time) map[string]string {
	errs := map[string]string{}
	switch step {
	case StepPersonal:
		validateName(errs, "first_name", "First name", d.FirstName)
		validateName(errs, "last_name", "Last name", d.LastName)
		validateEmail(errs, d.Email)
		validateDateOfBirth(errs, d.DateOfBirth, now)
		validateInstagram(errs, d.InstagramHandle)
		validateLinkedIn(errs, d.LinkedInURL)
	case StepDemographics:
		if !oneOf(d.AgeRange, AgeRangeOptions) {
			errs["age_range"] = "Please select your age range"
		}
		if !oneOf(d.Neighborhood, NeighborhoodOptions) {
			errs["neighborhood"] = "Please select your neighborhood"
		}
		validateOccupation(errs, d.Occupation)
	case StepInterests:
		if len(d.Interests) == 0 {
			errs["interests"] = "Please select at least one interest"
		}
		for _, tag := range d.Interests {
			if !oneOf(tag, InterestOptions) {
				errs["interests"] = "Unknown interest: " + tag
				break
			}
		}
	case StepPayment:
		if !d.TermsAccepted {
			errs["terms_accepted"] = "Please accept the terms to continue"
		}
		if !d.CardComplete {
			errs["card_complete"] = "Please complete your card details"
		}
	}
	return errs
}

// ValidReferralCode reports whether an entered code looks like a referral
// code. This is a soft format check only: an unknown code never blocks a
// signup, so callers use this purely for inline hints.
func ValidReferralCode(code string) bool {
	if code == "" {
		return true
	}
	return codeRe.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

func validateName(errs map[string]string, field, label, v string) {
	v = strings.TrimSpace(v)
	if len(v) < 2 {
		errs[field] = label + " must be at least 2 characters"
		return
	}
	if len(v) > 50 {
		errs[field] = label + " must be less than 50 characters"
		return
	}
	if !nameRe.MatchString(v) {
		errs[field] = label + " can only contain letters, spaces, hyphens, and apostrophes"
	}
}

func validateEmail(errs map[string]string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		errs["email"] = "Email address is required"
		return
	}
	if !emailRe.MatchString(v) {
		errs["email"] = "Please enter a valid email address"
	}
}

func validateDateOfBirth(errs map[string]string, v string, now time.Time) {
	if v == "" {
		errs["date_of_birth"] = "Date of birth is required"
		return
	}
	dob, err := time.Parse("2006-01-02", v)
	if err != nil {
		errs["date_of_birth"] = "Please enter a valid birth date (YYYY-MM-DD)"
		return
	}
	if !dob.Before(now) {
		errs["date_of_birth"] = "Date of birth must be in the past"
		return
	}
	age := AgeAt(dob, now)
	if age < minAge {
		errs["date_of_birth"] = fmt.Sprintf("You must be at least %d years old to join", minAge)
		return
	}
	if age > maxAge {
		errs["date_of_birth"] = "Please enter a valid date of birth"
	}
}

func validateInstagram(errs map[string]string, v string) {
	if v == "" {
		return // optional
	}
	handle := strings.TrimPrefix(strings.TrimSpace(v), "@")
	if len(handle) < 1 || len(handle) > 30 {
		errs["instagram_handle"] = "Instagram handle must be 1-30 characters long"
		return
	}
	if !instagramRe.MatchString(handle) {
		errs["instagram_handle"] = "Instagram handle can only contain letters, numbers, dots, and underscores"
	}
}

func validateLinkedIn(errs map[string]string, v string) {
	if v == "" {
		return // optional
	}
	if !linkedinRe.MatchString(strings.TrimSpace(v)) {
		errs["linkedin_url"] = "Please enter a valid LinkedIn profile URL (e.g., https://linkedin.com/in/yourname)"
	}
}

func validateOccupation(errs map[string]string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		errs["occupation"] = "Please describe your occupation"
		return
	}
	if len(v) > maxOccupation {
		errs["occupation"] = fmt.Sprintf("Occupation must be %d characters or fewer", maxOccupation)
	}
}

// Sanitize normalizes the draft in place: trims whitespace, lowercases the
// email, strips a leading @ from the Instagram handle, and uppercases the
// entered referral code.
func Sanitize(d *Data) {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.InstagramHandle = strings.TrimPrefix(strings.TrimSpace(d.InstagramHandle), "@")
	d.LinkedInURL = strings.TrimSpace(d.LinkedInURL)
	d.Occupation = strings.TrimSpace(d.Occupation)
	d.ReferredBy = strings.ToUpper(strings.TrimSpace(d.ReferredBy))
}
