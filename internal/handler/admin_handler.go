package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"bbwaitlist/internal/middleware"
	"bbwaitlist/internal/repository"
	"bbwaitlist/internal/service"
	"bbwaitlist/pkg/signupform"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type AdminHandler struct {
	authSvc   *service.AuthService
	repo      *repository.AdminRepository
	emailLogs *repository.EmailLogRepository
	referrals *repository.ReferralRepository
}

func NewAdminHandler(authSvc *service.AuthService, repo *repository.AdminRepository, emailLogs *repository.EmailLogRepository, referrals *repository.ReferralRepository) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, repo: repo, emailLogs: emailLogs, referrals: referrals}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, admin, err := h.authSvc.AdminLogin(strings.ToLower(req.Email), req.Password)
	if err != nil {
		if err == service.ErrInvalidCreds {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[admin] login failed: email=%s err=%v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "admin": admin})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.repo.GetDashboardStats()
	if err != nil {
		log.Printf("[admin] stats query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats query failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	users, total, err := h.repo.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		log.Printf("[admin] user list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.repo.GetUserByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	emails, _ := h.emailLogs.ListByUser(u.ID)
	referred, _ := h.referrals.ListByReferrer(u.ID, 25)
	// referral_count is the lifetime counter; the edge count can trail it
	// because edge creation is best-effort.
	referredTotal, _ := h.referrals.CountByReferrer(u.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":           u,
		"email_logs":     emails,
		"referred":       referred,
		"referred_total": referredTotal,
	})
}

// updatableUserFields maps PATCH body keys to the validation rule for their
// value. Position, referral code, email and the Stripe fields are immutable
// from the dashboard.
var updatableUserFields = map[string]string{
	"first_name":       "required,max=100",
	"last_name":        "required,max=100",
	"instagram_handle": "omitempty,max=64",
	"linkedin_url":     "omitempty,url,max=255",
	"age_range":        "required,max=8",
	"neighborhood":     "required,max=64",
	"occupation":       "required,max=500",
	"marketing_opt_in": "boolean",
}

var patchValidate = validator.New()

func validatePatchField(key string, value interface{}) error {
	rule := updatableUserFields[key]
	if rule == "boolean" {
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field %q must be a boolean", key)
		}
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q must be a string", key)
	}
	if err := patchValidate.Var(s, rule); err != nil {
		return fmt.Errorf("field %q is invalid", key)
	}
	switch key {
	case "age_range":
		if !slices.Contains(signupform.AgeRangeOptions, s) {
			return fmt.Errorf("field %q must be one of the accepted ranges", key)
		}
	case "neighborhood":
		if !slices.Contains(signupform.NeighborhoodOptions, s) {
			return fmt.Errorf("field %q must be one of the accepted areas", key)
		}
	}
	return nil
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]interface{}{}
	for k, v := range body {
		if _, ok := updatableUserFields[k]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("field %q is not editable", k)})
			return
		}
		if err := validatePatchField(k, v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fields[k] = v
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	if _, err := h.repo.GetUserByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if err := h.repo.UpdateUser(uint(id), fields); err != nil {
		log.Printf("[admin] user update failed: id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	log.Printf("[admin] user %d updated by admin %d", id, middleware.GetAdminID(c))
	u, _ := h.repo.GetUserByID(uint(id))
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Analytics handles GET /admin/analytics?range=7d|30d|90d|all.
func (h *AdminHandler) Analytics(c *gin.Context) {
	var since time.Time
	switch c.DefaultQuery("range", "30d") {
	case "7d":
		since = time.Now().AddDate(0, 0, -7)
	case "30d":
		since = time.Now().AddDate(0, 0, -30)
	case "90d":
		since = time.Now().AddDate(0, 0, -90)
	case "all":
		// zero time matches every row
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of 7d, 30d, 90d, all"})
		return
	}
	a, err := h.repo.GetAnalytics(since)
	if err != nil {
		log.Printf("[admin] analytics query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics query failed"})
		return
	}
	c.JSON(http.StatusOK, a)
}

var exportHeader = []string{
	"position", "first_name", "last_name", "email", "age_range",
	"neighborhood", "occupation", "interests", "referral_code",
	"referred_by", "referral_count", "payment_completed",
	"marketing_opt_in", "created_at",
}

// Export handles GET /admin/export, streaming every user as CSV ordered by
// position.
func (h *AdminHandler) Export(c *gin.Context) {
	users, err := h.repo.ListAllOrdered()
	if err != nil {
		log.Printf("[admin] export query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("waitlist-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for _, u := range users {
		row := []string{
			strconv.Itoa(u.WaitlistPosition),
			u.FirstName,
			u.LastName,
			u.Email,
			u.AgeRange,
			u.Neighborhood,
			u.Occupation,
			strings.Join(u.Interests, "; "),
			u.ReferralCode,
			deref(u.ReferredBy),
			strconv.Itoa(u.ReferralCount),
			strconv.FormatBool(u.PaymentCompleted),
			strconv.FormatBool(u.MarketingOptIn),
			u.CreatedAt.Format(time.RFC3339),
		}
		_ = w.Write(row)
	}
	w.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
