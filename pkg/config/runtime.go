package config

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// MaxShutdownTimeout caps the drain window so a stuck transport cannot hold
// the catalog process past an orchestrator's kill deadline.
const MaxShutdownTimeout = 2 * time.Minute

// ShutdownConfig bounds how long the catalog waits for in-flight calls,
// the HTTP and gRPC transports and the telemetry exporters to finish.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	return fmt.Sprintf("\n--- Shutdown ---\n  timeout: %s\n", c.Timeout)
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("shutdown timeout is not configured (shutdown.timeout)")
	}
	if c.Timeout > MaxShutdownTimeout {
		return fmt.Errorf("shutdown timeout %s exceeds %s", c.Timeout, MaxShutdownTimeout)
	}
	return nil
}

// Context returns a fresh context bounded by the shutdown timeout. It is detached
// from any cancelled parent so cleanup still gets its full window.
func (c *ShutdownConfig) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}

// PProfConfig enables the profiling listener. Profiles expose catalog internals,
// so the listener must name its host; an empty host would bind every interface.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	if c.Enabled {
		b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	}
	return b.String()
}

func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return fmt.Errorf("pprof address %q is invalid: %w", c.Addr, err)
	}
	if host == "" || port == "" {
		return fmt.Errorf("pprof address %q must name both host and port", c.Addr)
	}
	return nil
}
