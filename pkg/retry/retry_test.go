package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffFactor:   2.0,
		MaxTotalTimeout: time.Second,
	}
}

func TestDoWithLog_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := DoWithLog(context.Background(), fastConfig(), "test", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoWithLog_MaxAttemptsExceeded(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	logged := 0

	err := DoWithLog(context.Background(), fastConfig(), "test", func() error {
		attempts++
		return boom
	}, func(attempt int, err error, nextDelay time.Duration) {
		logged++
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
	// The final attempt fails without a log call
	assert.Equal(t, 2, logged)
}

func TestDoWithLog_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DoWithLog(ctx, fastConfig(), "test", func() error {
		return errors.New("never succeeds")
	}, nil)

	assert.Error(t, err)
}
