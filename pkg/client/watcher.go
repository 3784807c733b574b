package client

import (
	"context"
	"sync"
	"time"

	"github.com/marcobit/clawcrm/internal/models"
)

// WatchState is the reply watcher's lifecycle state.
type WatchState string

// Watcher states
const (
	WatchIdle    WatchState = "idle"
	WatchPolling WatchState = "polling"
	WatchFound   WatchState = "found"
	WatchExpired WatchState = "expired"
)

// ReplyWatcher polls a channel after a message send until a bot reply shows
// up or the attempt budget runs out. One watcher serves one send; cancel the
// context on channel change to stop an in-flight poll.
type ReplyWatcher struct {
	client      *Client
	interval    time.Duration
	maxAttempts int

	mu    sync.Mutex
	state WatchState
}

// NewReplyWatcher creates a watcher with a fixed poll interval and a bounded
// number of attempts. Non-positive arguments fall back to 2s / 15 attempts.
func NewReplyWatcher(c *Client, interval time.Duration, maxAttempts int) *ReplyWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 15
	}
	return &ReplyWatcher{
		client:      c,
		interval:    interval,
		maxAttempts: maxAttempts,
		state:       WatchIdle,
	}
}

// State reports the watcher's current lifecycle state.
func (w *ReplyWatcher) State() WatchState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *ReplyWatcher) setState(s WatchState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Watch polls until a bot-authored message with an id outside seenIDs
// appears. It returns the reply on found, nil after the attempt budget is
// exhausted, and the context error on cancellation (state resets to idle).
// Poll failures count as attempts rather than aborting the watch.
func (w *ReplyWatcher) Watch(ctx context.Context, channelID string, seenIDs []string) (*models.Message, error) {
	seen := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	w.setState(WatchPolling)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < w.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			w.setState(WatchIdle)
			return nil, ctx.Err()
		case <-ticker.C:
		}

		messages, err := w.client.Messages(ctx, channelID, 10, "")
		if err != nil {
			continue
		}
		// newest last; scan backwards so the latest reply wins
		for i := len(messages) - 1; i >= 0; i-- {
			m := messages[i]
			if m.Author.Bot && !seen[m.ID] {
				w.setState(WatchFound)
				return &m, nil
			}
		}
	}

	w.setState(WatchExpired)
	return nil, nil
}
