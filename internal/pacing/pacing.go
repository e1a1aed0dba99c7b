// Package pacing provides the artificial "typing" delays shown before an
// assistant reply. Delays carry no meaning; tests run with None and Instant.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

type Pacer interface {
	Delay() time.Duration
}

type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type none struct{}

func (none) Delay() time.Duration { return 0 }

// None never delays.
var None Pacer = none{}

type fixed time.Duration

func (f fixed) Delay() time.Duration { return time.Duration(f) }

func Fixed(d time.Duration) Pacer {
	if d <= 0 {
		return None
	}
	return fixed(d)
}

type jitter struct {
	lo, hi time.Duration
	rng    *rand.Rand
}

// Jitter returns a pacer picking uniformly in [lo, hi]. A fixed seed makes
// the sequence reproducible. Not safe for concurrent use.
func Jitter(lo, hi time.Duration, seed int64) Pacer {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi <= 0 {
		return None
	}
	if lo < 0 {
		lo = 0
	}
	if lo == hi {
		return Fixed(lo)
	}
	return &jitter{lo: lo, hi: hi, rng: rand.New(rand.NewSource(seed))}
}

func (j *jitter) Delay() time.Duration {
	return j.lo + time.Duration(j.rng.Int63n(int64(j.hi-j.lo)+1))
}

type RealClock struct{}

// Sleep waits d or until ctx is done.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type instant struct{}

func (instant) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// Instant returns immediately, still reporting cancellation.
var Instant Clock = instant{}
