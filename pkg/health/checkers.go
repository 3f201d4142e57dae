package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when more than threshold goroutines are running,
// which usually means a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// CapacityCheck fails once used() reaches limit. It guards in-memory stores
// that evict entries when full.
func CapacityCheck(used func() int, limit int) CheckFunc {
	return func(_ context.Context) error {
		if n := used(); limit > 0 && n >= limit {
			return errors.Errorf("at capacity: %d of %d", n, limit)
		}
		return nil
	}
}
