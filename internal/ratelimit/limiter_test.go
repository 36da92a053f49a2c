package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestNewAllowsBurst(t *testing.T) {
	l := New("test", 5)
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow())
	}
	assert.False(t, l.Allow())
}

func TestNewWindowedBudget(t *testing.T) {
	l := NewWindowed("GoogleBooks", 3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow())
	}
	// Budget spent, refill takes window/requests.
	assert.False(t, l.Allow())
}

func TestNewWindowedClampsInvalidInputs(t *testing.T) {
	l := NewWindowed("bad", 0, 0)
	assert.True(t, l.Allow())
}

func TestWaitCancelledContext(t *testing.T) {
	l := NewWindowed("test", 1, time.Hour)
	assert.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for test")
}

func TestName(t *testing.T) {
	assert.Equal(t, "OpenSearch", New("OpenSearch", 1).Name())
}
