package retry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelfeed/pkg/retry"
)

func TestWrapWithRetrySucceedsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	f := retry.WrapWithRetry(func() error {
		calls++
		return nil
	}, func(error, int) bool { return true }, 10)

	require.NoError(t, f())
	assert.Equal(t, 1, calls)
}

func TestWrapWithRetryStopsWhenShouldRetryDeclines(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	f := retry.WrapWithRetry(func() error {
		calls++
		return boom
	}, func(_ error, attempt int) bool { return attempt < 3 }, 1000)

	require.ErrorIs(t, f(), boom)
	assert.Equal(t, 3, calls)
}

func TestWrapWithRetryGivesUpOnHighErrorRate(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	f := retry.WrapWithRetry(func() error {
		calls++
		return boom
	}, func(error, int) bool { return true }, 5)

	// Failures arrive back to back, far above five per second.
	require.ErrorIs(t, f(), boom)
	assert.LessOrEqual(t, calls, 7)
}
