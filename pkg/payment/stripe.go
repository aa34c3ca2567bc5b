package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// metadataSource tags every object we create at Stripe.
const metadataSource = "bb_membership_waitlist"

// StripeGateway talks to the Stripe REST API directly (form-encoded, secret
// key auth).
type StripeGateway struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewStripeGateway(baseURL, secretKey string) *StripeGateway {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeGateway{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type stripeCustomerList struct {
	Data []stripeCustomer `json:"data"`
}

type stripeSetupIntent struct {
	ID            string `json:"id"`
	ClientSecret  string `json:"client_secret"`
	Status        string `json:"status"`
	Customer      string `json:"customer"`
	PaymentMethod string `json:"payment_method"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *StripeGateway) CreateOrGetCustomer(ctx context.Context, email, name, existingID string) (string, error) {
	if existingID != "" {
		var c stripeCustomer
		if err := g.do(ctx, http.MethodGet, "/v1/customers/"+existingID, nil, &c); err == nil && c.ID != "" {
			return c.ID, nil
		}
		// Customer no longer resolves at Stripe; fall through and create.
	}

	// Reuse by email before creating a duplicate.
	var list stripeCustomerList
	q := url.Values{"email": {email}, "limit": {"1"}}
	if err := g.do(ctx, http.MethodGet, "/v1/customers?"+q.Encode(), nil, &list); err == nil && len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}

	form := url.Values{
		"email":            {email},
		"name":             {name},
		"metadata[source]": {metadataSource},
	}
	var c stripeCustomer
	if err := g.do(ctx, http.MethodPost, "/v1/customers", form, &c); err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

func (g *StripeGateway) CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntent, error) {
	form := url.Values{
		"customer":         {customerID},
		"usage":            {"off_session"},
		"metadata[source]": {metadataSource},
	}
	var si stripeSetupIntent
	if err := g.do(ctx, http.MethodPost, "/v1/setup_intents", form, &si); err != nil {
		return nil, fmt.Errorf("stripe create setup intent: %w", err)
	}
	return convertIntent(&si), nil
}

func (g *StripeGateway) RetrieveSetupIntent(ctx context.Context, id string) (*SetupIntent, error) {
	var si stripeSetupIntent
	if err := g.do(ctx, http.MethodGet, "/v1/setup_intents/"+id, nil, &si); err != nil {
		return nil, fmt.Errorf("stripe retrieve setup intent: %w", err)
	}
	return convertIntent(&si), nil
}

func convertIntent(si *stripeSetupIntent) *SetupIntent {
	return &SetupIntent{
		ID:              si.ID,
		ClientSecret:    si.ClientSecret,
		Status:          si.Status,
		CustomerID:      si.Customer,
		PaymentMethodID: si.PaymentMethod,
	}
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var e stripeError
		if json.Unmarshal(respBody, &e) == nil && e.Error.Message != "" {
			return fmt.Errorf("stripe: %s (%d)", e.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("stripe: status %d: %s", resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}
