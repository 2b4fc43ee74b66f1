package domain

import "context"

// Message is a single rendered email.
type Message struct {
	To       string
	Cc       string
	Subject  string
	HTMLBody string
}

// Sender delivers one message. Implementations never queue or retry; a
// failed Send is reported to the caller immediately.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	// Mode reports which transport is active ("relay" or "sandbox").
	Mode() string
}
