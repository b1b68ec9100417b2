package ports

import "context"

// EmailPayload is the transport-agnostic notification contract. Any channel
// (email, push, webhook) that honors to/subject/html can sit behind it.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notifier delivers one notification. Implementations own their transport and
// timeouts; the router only records success or failure per event.
type Notifier interface {
	Send(ctx context.Context, payload EmailPayload) error
}
