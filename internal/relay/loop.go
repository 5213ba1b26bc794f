// Package relay drives the reply engine from Telegram long polling. The
// loop alternates between two states: Polling, where it fetches and answers
// update batches, and Backoff, where it sleeps out a transport failure
// before polling again. Transient failures never stop the loop; only
// context cancellation does.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/Madhan-Sampath-Nexgile/telebot/internal/telegram"
)

// API is the slice of the Telegram client the loop uses. Abstracted for
// tests.
type API interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Replier produces exactly one reply for one message text.
type Replier interface {
	Reply(ctx context.Context, prompt string) string
}

// ReplierFunc adapts a plain function to the Replier interface.
type ReplierFunc func(ctx context.Context, prompt string) string

// Reply calls f.
func (f ReplierFunc) Reply(ctx context.Context, prompt string) string {
	return f(ctx, prompt)
}

// Loop is the long-polling relay. It is single-threaded: updates from one
// fetch are answered sequentially in arrival order.
type Loop struct {
	api         API
	replier     Replier
	pollTimeout time.Duration
	backoff     time.Duration

	// offset is the monotonically increasing cursor, always one past the
	// highest processed update id. It advances only after an update is fully
	// processed, so a failure between processing and advancing replays the
	// update on the next fetch: delivery is at-least-once and a duplicate
	// reply is possible.
	offset int64
}

// New creates a Loop over the given transport and replier.
func New(api API, replier Replier, pollTimeout, backoff time.Duration) *Loop {
	return &Loop{
		api:         api,
		replier:     replier,
		pollTimeout: pollTimeout,
		backoff:     backoff,
	}
}

// Run polls until ctx is cancelled. Every transport failure, on fetch or on
// send, is logged and followed by one fixed backoff delay before polling
// resumes.
func (l *Loop) Run(ctx context.Context) {
	slog.Info("relay loop started",
		"poll_timeout", l.pollTimeout.String(),
		"backoff", l.backoff.String(),
	)

	for {
		if ctx.Err() != nil {
			slog.Info("relay loop stopped", "reason", "context_cancelled")
			return
		}

		updates, err := l.api.GetUpdates(ctx, l.offset, l.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("relay loop stopped", "reason", "context_cancelled")
				return
			}
			slog.Error("fetch updates failed", "error", err)
			if !l.sleep(ctx) {
				return
			}
			continue
		}

		if err := l.processBatch(ctx, updates); err != nil {
			if ctx.Err() != nil {
				slog.Info("relay loop stopped", "reason", "context_cancelled")
				return
			}
			slog.Error("forward reply failed", "error", err)
			if !l.sleep(ctx) {
				return
			}
		}
	}
}

// processBatch answers one fetched batch in order. The cursor advances past
// each update only once it is fully processed, so the first send failure
// aborts the batch and the failed update, with everything after it, is
// refetched on the next poll.
func (l *Loop) processBatch(ctx context.Context, updates []telegram.Update) error {
	for _, update := range updates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		message := update.Message
		if message == nil || message.Text == "" {
			// Not a text message: nothing to answer, but still consume it.
			l.advance(update.UpdateID)
			continue
		}

		reply := l.replier.Reply(ctx, message.Text)
		if err := l.api.SendMessage(ctx, message.Chat.ID, reply); err != nil {
			return err
		}
		l.advance(update.UpdateID)
	}
	return nil
}

func (l *Loop) advance(updateID int64) {
	if updateID >= l.offset {
		l.offset = updateID + 1
	}
}

// sleep waits out one backoff period. Returns false when ctx was cancelled
// while waiting.
func (l *Loop) sleep(ctx context.Context) bool {
	timer := time.NewTimer(l.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
