package app

import (
	"fmt"
	"sync"
	"time"

	"quiz-frontend/internal/domain"
)

// Ticker delivers countdown ticks. It mirrors time.Ticker so tests can
// drive the countdown by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type realTicker struct {
	ticker *time.Ticker
}

func (t realTicker) C() <-chan time.Time { return t.ticker.C }
func (t realTicker) Stop()               { t.ticker.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{ticker: time.NewTicker(d)}
}

// Countdown is a one-shot, one-second countdown owned by a single attempt.
// It can be armed once; Stop is idempotent and safe from inside callbacks.
type Countdown struct {
	newTicker TickerFunc

	mu      sync.Mutex
	armed   bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

func NewCountdown(newTicker TickerFunc) *Countdown {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &Countdown{
		newTicker: newTicker,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start arms the countdown. onTick receives the remaining seconds after
// each tick; onExpire runs once when the count reaches zero, after which
// the countdown stops itself.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onExpire func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed {
		return domain.ErrTimerArmed
	}
	if c.stopped {
		return domain.ErrTimerStopped
	}
	c.armed = true

	ticker := c.newTicker(time.Second)
	go c.run(ticker, seconds, onTick, onExpire)
	return nil
}

func (c *Countdown) run(ticker Ticker, remaining int, onTick func(int), onExpire func()) {
	defer close(c.done)
	defer ticker.Stop()

	if remaining <= 0 {
		c.Stop()
		onExpire()
		return
	}
	for {
		select {
		case <-c.stop:
			return
		default:
		}
		select {
		case <-c.stop:
			return
		case <-ticker.C():
			if !c.live() {
				return
			}
			remaining--
			onTick(remaining)
			if remaining <= 0 {
				c.Stop()
				onExpire()
				return
			}
		}
	}
}

// Stop cancels the countdown. Pending ticks are dropped.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stop)
	if !c.armed {
		close(c.done)
	}
}

// Armed reports whether Start has succeeded.
func (c *Countdown) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// Done is closed once the countdown goroutine has exited, or on Stop when
// the countdown was never armed.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
