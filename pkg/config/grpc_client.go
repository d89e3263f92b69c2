package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// GrpcClientConfig locates the catalog service and bounds each call attempt.
type GrpcClientConfig struct {
	// Addr is a gRPC target: host:port, or a resolver URI such as dns:///catalog:50051.
	Addr string `koanf:"addr"`
	// Timeout bounds one attempt of any operation without an entry in OpTimeouts.
	Timeout time.Duration `koanf:"timeout"`
	// OpTimeouts overrides Timeout per catalog operation name, e.g. stockValuation.
	OpTimeouts map[string]time.Duration `koanf:"optimeouts"`
}

// TimeoutFor returns the attempt bound for op. Operation names match case-insensitively
// because environment overrides arrive lower-cased.
func (c *GrpcClientConfig) TimeoutFor(op string) time.Duration {
	for name, d := range c.OpTimeouts {
		if strings.EqualFold(name, op) {
			return d
		}
	}
	return c.Timeout
}

func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog gRPC Client ---\n")
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	for op, d := range c.OpTimeouts {
		b.WriteString(fmt.Sprintf("  timeout[%s]: %s\n", op, d))
	}
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("catalog service address is not configured (grpcclient.addr)")
	}
	if !strings.Contains(c.Addr, "://") && !strings.HasPrefix(c.Addr, "unix:") {
		if _, port, err := net.SplitHostPort(c.Addr); err != nil || port == "" {
			return fmt.Errorf("catalog service address %q must be host:port or a resolver URI", c.Addr)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("catalog call timeout is not configured (grpcclient.timeout)")
	}
	for op, d := range c.OpTimeouts {
		if d <= 0 {
			return fmt.Errorf("catalog call timeout for %s must be greater than 0", op)
		}
	}
	return nil
}
