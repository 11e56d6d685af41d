// Package watcher reloads inbox inputs when the files behind them change.
package watcher

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces bursts of file events into one callback carrying the
// last path seen. bd rewrites issues.jsonl with several writes in a row, so
// firing per event would reload half-written files.
type Debouncer struct {
	duration time.Duration
	callback func(path string)

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	lastPath string
}

// NewDebouncer creates a Debouncer. A zero duration means DefaultDebounceDuration.
func NewDebouncer(duration time.Duration, callback func(path string)) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{
		duration: duration,
		callback: callback,
	}
}

// Trigger records an event for path and restarts the quiet period
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	d.lastPath = path

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		p, ok := d.claim(seq)
		if !ok {
			return
		}

		defer func() {
			if r := recover(); r != nil {
				slog.Error("debouncer callback panicked", slog.Any("error", r))
			}
		}()
		d.callback(p)
	})
}

// claim reports whether seq is still the latest trigger. Stop() can return
// false when the timer already fired, so a superseded callback may still
// reach here and must bail out.
func (d *Debouncer) claim(seq uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return "", false
	}
	d.timer = nil
	return d.lastPath, true
}

// Cancel drops any pending callback
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the debounce window
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
