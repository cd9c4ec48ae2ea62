package usecase

import (
	"fmt"
	"math/rand"
	"time"
)

// NumberGenerator returns a candidate order number for the given instant.
// Candidates are not guaranteed unique; the orders table enforces that.
type NumberGenerator func(now time.Time) string

// NewOrderNumberGenerator builds numbers of the form <prefix>-<epoch-ms>-<0..999>.
func NewOrderNumberGenerator(prefix string) NumberGenerator {
	return func(now time.Time) string {
		return fmt.Sprintf("%s-%d-%d", prefix, now.UnixMilli(), rand.Intn(1000))
	}
}
