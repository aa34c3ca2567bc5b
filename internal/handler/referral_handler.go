package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"bbwaitlist/internal/repository"
	"bbwaitlist/pkg/signupform"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const referralCacheTTL = 60 * time.Second

// ReferralHandler serves the public referral-code lookups used by the
// landing page (prefill banner) and the confirmation screen (share stats).
type ReferralHandler struct {
	users     *repository.UserRepository
	referrals *repository.ReferralRepository
	cache     *redis.Client // nil disables caching
}

func NewReferralHandler(users *repository.UserRepository, referrals *repository.ReferralRepository, cache *redis.Client) *ReferralHandler {
	return &ReferralHandler{users: users, referrals: referrals, cache: cache}
}

// Validate handles GET /referral/validate?code=. A miss is a 200 with
// valid=false; unknown codes never block a signup, so they are not errors.
func (h *ReferralHandler) Validate(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if code == "" || !signupform.ValidReferralCode(code) {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	cacheKey := "referral:valid:" + code
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	u, err := h.users.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"valid": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	body, _ := json.Marshal(gin.H{
		"valid":               true,
		"referrer_first_name": u.FirstName,
		"referrer_position":   u.WaitlistPosition,
		"referral_count":      u.ReferralCount,
	})
	if h.cache != nil {
		h.cache.Set(c.Request.Context(), cacheKey, string(body), referralCacheTTL)
	}
	c.Data(http.StatusOK, "application/json", body)
}

// Stats handles GET /referral/stats?code=. Powers the confirmation screen's
// "you've referred N friends" block.
func (h *ReferralHandler) Stats(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	u, err := h.users.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown referral code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	list, err := h.referrals.ListByReferrer(u.ID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	recent := make([]gin.H, 0, len(list))
	for _, r := range list {
		recent = append(recent, gin.H{
			"first_name": r.Referee.FirstName,
			"joined_at":  r.CreatedAt,
		})
	}

	total, err := h.users.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	// "top N%" of the list, rounded up so position 1 of 1 reads as top 100%.
	percentile := 100
	if total > 0 {
		percentile = int(float64(u.WaitlistPosition) / float64(total) * 100)
		if percentile < 1 {
			percentile = 1
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code":  u.ReferralCode,
		"referral_count": u.ReferralCount,
		"position":       u.WaitlistPosition,
		"total_users":    total,
		"percentile":     percentile,
		"recent":         recent,
	})
}
