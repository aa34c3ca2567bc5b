// Package email abstracts the transactional email provider behind a
// fire-and-forget dispatcher.
package email

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Dispatcher sends one message and returns the provider's message id.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) (string, error)
}
