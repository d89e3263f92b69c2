package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBreakerName names the client breaker in logs and state-change callbacks
// when the configuration leaves it blank.
const DefaultBreakerName = "catalog-client"

// ResilienceConfig configures how a catalog client survives an unavailable service:
// idempotent operations are retried, and a breaker stops calling a failing service.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// RetryConfig applies only to read operations and absolute adjustments;
// creates are never retried.
type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
}

type CircuitBreakerConfig struct {
	Name                string        `koanf:"name"`
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
	// HalfOpenRequests is how many trial calls pass while the breaker is half-open.
	HalfOpenRequests uint32 `koanf:"halfopenrequests"`
}

// BreakerName returns the configured name or DefaultBreakerName.
func (c CircuitBreakerConfig) BreakerName() string {
	if c.Name == "" {
		return DefaultBreakerName
	}
	return c.Name
}

func (c *ResilienceConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Resilience ---\n")
	b.WriteString(fmt.Sprintf("  retry: %d attempts, backoff from %v\n", c.Retry.MaxAttempts, c.Retry.InitialBackoff))
	b.WriteString(fmt.Sprintf("  breaker %q: opens after %d consecutive failures or %d%% errors, half-open after %v with %d trial calls\n",
		c.CircuitBreaker.BreakerName(), c.CircuitBreaker.ConsecutiveFailures, c.CircuitBreaker.ErrorRatePercent,
		c.CircuitBreaker.OpenTimeout, c.CircuitBreaker.HalfOpenRequests))
	return b.String()
}

func (c *ResilienceConfig) Validate() error {
	var errs []string
	if c.Retry.MaxAttempts == 0 {
		errs = append(errs, "resilience.retry.maxattempts must be greater than 0")
	}
	if c.Retry.InitialBackoff <= 0 {
		errs = append(errs, "resilience.retry.initialbackoff must be greater than 0")
	}
	if c.CircuitBreaker.ConsecutiveFailures == 0 {
		errs = append(errs, "resilience.circuitbreaker.consecutivefailures must be greater than 0")
	}
	if c.CircuitBreaker.ErrorRatePercent < 0 || c.CircuitBreaker.ErrorRatePercent > 100 {
		errs = append(errs, "resilience.circuitbreaker.errorratepercent must be between 0 and 100")
	}
	if c.CircuitBreaker.OpenTimeout <= 0 {
		errs = append(errs, "resilience.circuitbreaker.opentimeout must be greater than 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid resilience settings: %s", strings.Join(errs, "; "))
	}
	return nil
}
