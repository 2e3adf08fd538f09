package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/metrics"
)

const DefaultTimeout = 5 * time.Second

// Sender delivers one event. Implementations may block; the notifier bounds them.
type Sender interface {
	Send(ctx context.Context, event Event) error
}

type SenderFunc func(ctx context.Context, event Event) error

func (f SenderFunc) Send(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Notifier calls its sender synchronously. Sender failures and panics are
// logged as upstream errors and never returned.
type Notifier struct {
	sender  Sender
	timeout time.Duration
}

func New(sender Sender, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{sender: sender, timeout: timeout}
}

func (n *Notifier) Notify(ctx context.Context, event Event) {
	if n == nil || n.sender == nil || event == nil {
		return
	}
	logger := log.Ctx(ctx)

	if err := n.send(ctx, event); err != nil {
		metrics.Notifications.WithLabelValues(event.Kind(), "failed").Inc()
		logger.Error().
			Err(fmt.Errorf("%w: %w", apperr.ErrUpstream, err)).
			Str("event", event.Kind()).
			Msg("Failed to deliver notification")
		return
	}

	metrics.Notifications.WithLabelValues(event.Kind(), "sent").Inc()
	logger.Debug().Str("event", event.Kind()).Msg("Notification delivered")
}

func (n *Notifier) send(ctx context.Context, event Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sender panic: %v", p)
		}
	}()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	return n.sender.Send(sendCtx, event)
}
