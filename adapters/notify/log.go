package notify

import (
	"context"
	"log"

	"adpulse/ports"
)

// LogNotifier prints notifications instead of delivering them. Used in
// development and as the fallback when no webhook is configured.
type LogNotifier struct{}

// NewLogNotifier creates a console notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send logs the payload and always succeeds.
func (n *LogNotifier) Send(_ context.Context, payload ports.EmailPayload) error {
	log.Printf("[notify] to=%s subject=%q (%d bytes html)", payload.To, payload.Subject, len(payload.HTML))
	return nil
}
