package mailer

import "context"

// Message is a fully rendered email ready for delivery. Template lookup
// and placeholder substitution happen upstream in the email service; the
// transport only moves bytes.
type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	HTMLBody string
}

// Client delivers rendered messages. Implementations classify their own
// transient/permanent failures; callers treat any returned error as a
// failed delivery.
type Client interface {
	Send(ctx context.Context, msg *Message) error
}
