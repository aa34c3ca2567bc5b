package handler

import (
	"log"
	"net/http"
	"time"

	"bbwaitlist/internal/service"
	"bbwaitlist/internal/ws"
	"bbwaitlist/pkg/signupform"

	"github.com/gin-gonic/gin"
)

type SignupHandler struct {
	svc *service.SignupService
	hub *ws.Hub // nil when the live feed is disabled
}

func NewSignupHandler(svc *service.SignupService, hub *ws.Hub) *SignupHandler {
	return &SignupHandler{svc: svc, hub: hub}
}

// Submit handles POST /waitlist/signup. The client sends the accumulated
// form data from all steps at once; nothing is persisted before this call.
func (h *SignupHandler) Submit(c *gin.Context) {
	var form signupform.Data
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	signupform.Sanitize(&form)

	// Re-run the client's per-step validation server-side. Field errors come
	// back keyed by field name so the client can jump to the right step.
	now := time.Now()
	details := map[string]string{}
	for step := signupform.StepPersonal; step <= signupform.StepPayment; step++ {
		for field, msg := range signupform.ValidateStep(step, &form, now) {
			if _, seen := details[field]; !seen {
				details[field] = msg
			}
		}
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": details})
		return
	}

	dob, err := time.Parse("2006-01-02", form.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth format (use YYYY-MM-DD)"})
		return
	}

	in := service.SignupInput{
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Email:           form.Email,
		DateOfBirth:     dob,
		InstagramHandle: form.InstagramHandle,
		LinkedInURL:     form.LinkedInURL,
		AgeRange:        form.AgeRange,
		Neighborhood:    form.Neighborhood,
		Occupation:      form.Occupation,
		Interests:       form.Interests,
		MarketingOptIn:  form.MarketingOptIn,
		ReferredBy:      form.ReferredBy,
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
		UTMSource:       form.UTMSource,
	}

	res, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		if err == service.ErrEmailExists {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[signup] submit failed: email=%s err=%v", in.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastSignup(ws.SignupEvent{
			UserID:       res.User.ID,
			Name:         res.User.FullName(),
			Neighborhood: res.User.Neighborhood,
			Position:     res.User.WaitlistPosition,
			Referred:     res.User.ReferredBy != nil,
			CreatedAt:    res.User.CreatedAt,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": signupform.Completion{
			UserID:           res.User.ID,
			ReferralCode:     res.User.ReferralCode,
			WaitlistPosition: res.User.WaitlistPosition,
			ClientSecret:     res.ClientSecret,
		},
		"steps": res.Steps,
	})
}
