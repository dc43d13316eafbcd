package retry

import (
	"time"
)

type fn func() error
type shouldRetry func(err error, attempt int) bool

// WrapWithRetry wraps the given function, retrying it while shouldRetry
// allows. It gives up when the most recent failures arrive faster than
// maxPerSecond, so a persistently broken dependency does not spin.
func WrapWithRetry(f fn, shouldRetry shouldRetry, maxPerSecond float32) func() error {
	size := int(maxPerSecond + 1)
	var errorTimestamps []time.Time

	return func() error {
		attempt := 0

		for {
			err := f()
			if err == nil {
				return nil
			}

			attempt++

			errorTimestamps = append(errorTimestamps, time.Now())
			if len(errorTimestamps) > size {
				errorTimestamps = errorTimestamps[1:]
			}

			if !shouldRetry(err, attempt) {
				return err
			}

			if len(errorTimestamps) == size && errorTimestamps[size-1].Sub(errorTimestamps[0]) < time.Second {
				return err
			}
		}
	}
}
