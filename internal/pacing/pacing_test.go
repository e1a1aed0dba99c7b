package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedAndNone(t *testing.T) {
	assert.Equal(t, time.Duration(0), None.Delay())
	assert.Equal(t, 800*time.Millisecond, Fixed(800*time.Millisecond).Delay())
	assert.Equal(t, None, Fixed(-time.Second))
}

func TestJitterStaysInRangeAndIsReproducible(t *testing.T) {
	a := Jitter(600*time.Millisecond, 2*time.Second, 42)
	b := Jitter(600*time.Millisecond, 2*time.Second, 42)

	for i := 0; i < 100; i++ {
		d := a.Delay()
		assert.GreaterOrEqual(t, d, 600*time.Millisecond)
		assert.LessOrEqual(t, d, 2*time.Second)
		assert.Equal(t, d, b.Delay())
	}
}

func TestJitterDegenerateRanges(t *testing.T) {
	assert.Equal(t, None, Jitter(0, 0, 1))
	assert.Equal(t, time.Second, Jitter(time.Second, time.Second, 1).Delay())

	swapped := Jitter(2*time.Second, time.Second, 1)
	d := swapped.Delay()
	assert.GreaterOrEqual(t, d, time.Second)
	assert.LessOrEqual(t, d, 2*time.Second)
}

func TestRealClockHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RealClock{}.Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, RealClock{}.Sleep(context.Background(), time.Millisecond))
}

func TestInstant(t *testing.T) {
	assert.NoError(t, Instant.Sleep(context.Background(), time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Instant.Sleep(ctx, 0), context.Canceled)
}
