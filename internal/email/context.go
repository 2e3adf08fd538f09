package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	// Detach cancellation so a finished request does not abort delivery.
	parent = context.WithoutCancel(parent)
	return context.WithTimeout(parent, timeout)
}

// Deliver sends the message to every recipient under one timeout. Blank
// recipients are skipped; failures are joined.
func Deliver(ctx context.Context, sender EmailSender, recipients []string, message Message, timeout time.Duration) error {
	if sender == nil {
		return fmt.Errorf("email sender is not configured")
	}
	if message.Subject == "" || message.Body == "" {
		return fmt.Errorf("email subject and body are required")
	}

	sendCtx, cancel := newEmailContext(ctx, timeout)
	defer cancel()

	var errs []error
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		if err := sender.Send(sendCtx, recipient, message.Subject, message.Body); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", recipient, err))
		}
	}
	return errors.Join(errs...)
}
