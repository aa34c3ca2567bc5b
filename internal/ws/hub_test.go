package ws

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBroadcastDelivers(t *testing.T) {
	h := NewHub()
	c := &Client{Send: make(chan []byte, 4)}
	h.Register(c)

	h.BroadcastSignup(SignupEvent{
		UserID:       3,
		Name:         "Sarah Chen",
		Neighborhood: "Brickell",
		Position:     7,
		CreatedAt:    time.Now(),
	})

	select {
	case msg := <-c.Send:
		if !strings.Contains(string(msg), `"type":"signup"`) {
			t.Fatalf("unexpected event payload: %s", msg)
		}
		if !strings.Contains(string(msg), `"position":7`) {
			t.Fatalf("event missing position: %s", msg)
		}
	default:
		t.Fatal("no event delivered to connected client")
	}
}

func TestClosedClientGetsNoEvents(t *testing.T) {
	h := NewHub()
	c := &Client{Send: make(chan []byte, 4)}
	h.Register(c)
	c.Close()

	h.BroadcastSignup(SignupEvent{UserID: 2, Name: "Marcus Reed", Position: 2})

	select {
	case msg := <-c.Send:
		t.Fatalf("closed client received event: %s", msg)
	default:
	}
	if n := h.ClientCount(); n != 0 {
		t.Fatalf("expected 0 clients after close, got %d", n)
	}
}

// A client disconnecting while a signup broadcast is in flight must never
// panic the broadcasting goroutine; a signup that already inserted its row
// has to return its completion data to the caller.
func TestBroadcastDuringClose(t *testing.T) {
	h := NewHub()
	for i := 0; i < 100; i++ {
		c := &Client{Send: make(chan []byte, 1)}
		h.Register(c)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.BroadcastSignup(SignupEvent{UserID: 1, Name: "Sarah Chen", Position: 1})
		}()
		go func() {
			defer wg.Done()
			c.Close()
		}()
		wg.Wait()
	}
	if n := h.ClientCount(); n != 0 {
		t.Fatalf("expected 0 clients after closes, got %d", n)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := NewHub()
	c := &Client{Send: make(chan []byte, 1)}
	h.Register(c)
	c.Close()
	c.Close() // second close must be a no-op
	if n := h.ClientCount(); n != 0 {
		t.Fatalf("expected 0 clients, got %d", n)
	}
}
