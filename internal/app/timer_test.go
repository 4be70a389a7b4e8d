package app_test

import (
	"sync/atomic"
	"testing"
	"time"

	"quiz-frontend/internal/app"
	"quiz-frontend/internal/domain"
)

func TestCountdownExpiresOnceAfterAllTicks(t *testing.T) {
	tk := newManualTicker()
	countdown := app.NewCountdown(tk.factory())

	var ticks []int
	var expired atomic.Int32
	if err := countdown.Start(300, func(remaining int) {
		ticks = append(ticks, remaining)
	}, func() {
		expired.Add(1)
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 300; i++ {
		if !tk.tick() {
			t.Fatalf("tick %d not consumed", i+1)
		}
	}
	waitDone(t, countdown)

	if len(ticks) != 300 || ticks[len(ticks)-1] != 0 {
		t.Fatalf("expected 300 ticks ending at 0, got %d ending at %d", len(ticks), ticks[len(ticks)-1])
	}
	if expired.Load() != 1 {
		t.Fatalf("expected one expiry, got %d", expired.Load())
	}
	if tk.tick() {
		t.Fatalf("countdown still listening after expiry")
	}
}

func TestCountdownArmsOnce(t *testing.T) {
	tk := newManualTicker()
	countdown := app.NewCountdown(tk.factory())
	defer countdown.Stop()

	if err := countdown.Start(10, func(int) {}, func() {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := countdown.Start(10, func(int) {}, func() {}); err != domain.ErrTimerArmed {
		t.Fatalf("expected ErrTimerArmed, got %v", err)
	}
	if !countdown.Armed() {
		t.Fatalf("expected armed countdown")
	}
}

func TestCountdownStopDropsTicks(t *testing.T) {
	tk := newManualTicker()
	countdown := app.NewCountdown(tk.factory())

	ticked := make(chan int, 16)
	var expired atomic.Int32
	_ = countdown.Start(10, func(remaining int) { ticked <- remaining }, func() { expired.Add(1) })

	for _, want := range []int{9, 8} {
		tk.tick()
		select {
		case got := <-ticked:
			if got != want {
				t.Fatalf("expected %d remaining, got %d", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("tick not applied")
		}
	}
	countdown.Stop()
	countdown.Stop()
	// A tick racing Stop may still be received; it must not be applied.
	tk.tick()
	waitDone(t, countdown)

	if len(ticked) != 0 || expired.Load() != 0 {
		t.Fatalf("expected no ticks after stop and no expiry, got %d ticks %d expiries", len(ticked), expired.Load())
	}
}

func TestCountdownStartAfterStop(t *testing.T) {
	countdown := app.NewCountdown(newManualTicker().factory())
	countdown.Stop()

	if err := countdown.Start(5, func(int) {}, func() {}); err != domain.ErrTimerStopped {
		t.Fatalf("expected ErrTimerStopped, got %v", err)
	}
	waitDone(t, countdown)
}

func TestFormatRemaining(t *testing.T) {
	cases := map[int]string{0: "00:00", 59: "00:59", 300: "05:00", 601: "10:01", -3: "00:00"}
	for in, want := range cases {
		if got := app.FormatRemaining(in); got != want {
			t.Fatalf("FormatRemaining(%d) = %s, want %s", in, got, want)
		}
	}
}

func waitDone(t *testing.T, countdown *app.Countdown) {
	t.Helper()
	select {
	case <-countdown.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown goroutine did not exit")
	}
}
