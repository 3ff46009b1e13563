// Package notify delivers notification texts to the fixed destination chat.
//
// Delivery is best-effort and single-attempt; the poll loop decides whether
// an undelivered message is retried on a later iteration.
package notify

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	kit "hwbot/internal/transport"
	"hwbot/pkg/logx"
)

// DeliveryError reports a failed send through the messaging channel.
type DeliveryError struct {
	cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed: %v", e.cause)
}

func (e *DeliveryError) Unwrap() error { return e.cause }

type Service struct {
	sender  kit.Sender
	limiter *rate.Limiter
	log     logx.Logger

	mu     sync.Mutex
	target kit.ChatTarget
}

func New(sender kit.Sender, target kit.ChatTarget, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		sender: sender,
		target: target,
		// Telegram allows roughly one message per second per chat; a small
		// burst keeps startup snappy without tripping flood limits.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		log:     log,
	}
}

// SetThreadID retargets sends to a forum topic (settings hot reload).
func (s *Service) SetThreadID(id int) {
	s.mu.Lock()
	s.target.ThreadID = id
	s.mu.Unlock()
}

// Notify sends one text message to the destination chat.
func (s *Service) Notify(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &DeliveryError{cause: err}
	}

	s.mu.Lock()
	target := s.target
	s.mu.Unlock()

	_, err := s.sender.SendText(ctx, target, text, &kit.SendOptions{DisablePreview: true})
	if err != nil {
		s.log.Error("notification send failed",
			logx.Int64("chat_id", target.ChatID),
			logx.Int("thread_id", target.ThreadID),
			logx.Err(err),
		)
		return &DeliveryError{cause: err}
	}

	s.log.Debug("notification sent",
		logx.Int64("chat_id", target.ChatID),
		logx.Int("thread_id", target.ThreadID),
		logx.Int("text_len", len(text)),
	)
	return nil
}
