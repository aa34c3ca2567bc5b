package email

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StubDispatcher records messages instead of sending them.
type StubDispatcher struct {
	mu       sync.Mutex
	Sent     []Message
	failNext error
}

func NewStubDispatcher() *StubDispatcher {
	return &StubDispatcher{}
}

// FailNext makes the next Send return err.
func (d *StubDispatcher) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failNext = err
}

func (d *StubDispatcher) Send(ctx context.Context, msg Message) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failNext; err != nil {
		d.failNext = nil
		return "", err
	}
	d.Sent = append(d.Sent, msg)
	return "stub_" + uuid.NewString()[:8], nil
}
