package state

import "time"

const (
	defaultBackoff = 2 * time.Second
	maxBackoff     = 30 * time.Second
)

// calculateBackoff returns the retry delay after the given number of
// consecutive failures beyond the first: base doubled per failure, capped.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
