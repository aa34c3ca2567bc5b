package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// StubGateway is an in-memory gateway for development and tests. Setup
// intents start in requires_payment_method; tests drive them to succeeded
// with MarkSucceeded.
type StubGateway struct {
	mu        sync.Mutex
	customers map[string]string // email -> customer id
	intents   map[string]*SetupIntent
	failNext  error
}

func NewStubGateway() *StubGateway {
	return &StubGateway{
		customers: make(map[string]string),
		intents:   make(map[string]*SetupIntent),
	}
}

// FailNext makes the next gateway call return err, simulating an outage.
func (g *StubGateway) FailNext(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = err
}

func (g *StubGateway) takeFailure() error {
	err := g.failNext
	g.failNext = nil
	return err
}

func (g *StubGateway) CreateOrGetCustomer(ctx context.Context, email, name, existingID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(); err != nil {
		return "", err
	}
	if existingID != "" {
		return existingID, nil
	}
	if id, ok := g.customers[email]; ok {
		return id, nil
	}
	id := "cus_stub_" + uuid.NewString()[:8]
	g.customers[email] = id
	return id, nil
}

func (g *StubGateway) CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(); err != nil {
		return nil, err
	}
	id := "seti_stub_" + uuid.NewString()[:8]
	si := &SetupIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString()[:8],
		Status:       "requires_payment_method",
		CustomerID:   customerID,
	}
	g.intents[id] = si
	return si, nil
}

func (g *StubGateway) RetrieveSetupIntent(ctx context.Context, id string) (*SetupIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure(); err != nil {
		return nil, err
	}
	si, ok := g.intents[id]
	if !ok {
		return nil, errors.New("no such setup intent: " + id)
	}
	copy := *si
	return &copy, nil
}

// MarkSucceeded simulates the client confirming card setup at the gateway.
func (g *StubGateway) MarkSucceeded(id, paymentMethodID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if si, ok := g.intents[id]; ok {
		si.Status = StatusSucceeded
		si.PaymentMethodID = paymentMethodID
	}
}
