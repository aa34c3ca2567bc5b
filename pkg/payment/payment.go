// Package payment abstracts the card gateway: create or reuse a customer,
// issue a setup intent (an off-session payment-method authorization with no
// immediate charge), and retrieve one after the client confirmed it.
package payment

import "context"

const StatusSucceeded = "succeeded"

// SetupIntent is the subset of the gateway's object the backend cares about.
type SetupIntent struct {
	ID              string
	ClientSecret    string
	Status          string
	CustomerID      string
	PaymentMethodID string
}

type Gateway interface {
	// CreateOrGetCustomer returns a customer id for the email, reusing
	// existingID when it still resolves at the gateway.
	CreateOrGetCustomer(ctx context.Context, email, name, existingID string) (string, error)
	CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntent, error)
	RetrieveSetupIntent(ctx context.Context, id string) (*SetupIntent, error)
}
