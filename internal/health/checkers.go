// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
)

// PingChecker reports a dependency as healthy when its ping succeeds.
type PingChecker struct {
	name string
	ping func(context.Context) error
	// failStatus is reported when ping fails.
	failStatus Status
}

// NewPingChecker reports unhealthy when ping fails.
func NewPingChecker(name string, ping func(context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping, failStatus: StatusUnhealthy}
}

// NewOptionalPingChecker reports degraded when ping fails, for
// dependencies the service can answer without.
func NewOptionalPingChecker(name string, ping func(context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping, failStatus: StatusDegraded}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: c.failStatus, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "reachable"}
}

// BreakerChecker maps a circuit breaker state onto a health status: open
// is degraded because requests fail fast but the service still answers.
type BreakerChecker struct {
	name  string
	state func() string
}

// NewBreakerChecker creates a checker over a breaker's State method.
func NewBreakerChecker(name string, state func() string) *BreakerChecker {
	return &BreakerChecker{name: name, state: state}
}

func (c *BreakerChecker) Name() string { return c.name }

func (c *BreakerChecker) Check(context.Context) CheckResult {
	switch s := c.state(); s {
	case "closed":
		return CheckResult{Status: StatusHealthy, Message: "circuit closed"}
	case "half-open":
		return CheckResult{Status: StatusDegraded, Message: "circuit probing"}
	case "open":
		return CheckResult{Status: StatusDegraded, Message: "circuit open, failing fast"}
	default:
		return CheckResult{Status: StatusDegraded, Message: fmt.Sprintf("unknown circuit state %q", s)}
	}
}
