package health

import (
	"context"
	"fmt"
	"time"
)

// Checker is one named readiness check
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// DatabaseHealthChecker runs a round trip against the database.
type DatabaseHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkFunc) Name() string { return c.name }
func (c checkFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// NewCheck adapts a function into a Checker
func NewCheck(name string, fn func(ctx context.Context) error) Checker {
	return checkFunc{name: name, fn: fn}
}

// DatabaseCheck runs the database health query
func DatabaseCheck(db DatabaseHealthChecker) Checker {
	return NewCheck("database", db.HealthCheck)
}

// FreshnessCheck fails until last reports a time, and again once that
// time is older than maxAge.
func FreshnessCheck(name string, last func() time.Time, maxAge time.Duration) Checker {
	return NewCheck(name, func(context.Context) error {
		t := last()
		if t.IsZero() {
			return fmt.Errorf("no successful run yet")
		}
		if age := time.Since(t); age > maxAge {
			return fmt.Errorf("last success %s ago exceeds %s", age.Round(time.Second), maxAge)
		}
		return nil
	})
}
