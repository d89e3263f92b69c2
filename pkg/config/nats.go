package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultNATSClientName identifies catalog connections in the NATS monitoring endpoints.
const DefaultNATSClientName = "catalog"

// NATSConfig configures publishing of catalog change events. Publishing is optional:
// when disabled, committed changes are simply not announced.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	// ClientName defaults to DefaultNATSClientName.
	ClientName string `koanf:"clientname"`
	// DrainTimeout bounds flushing of pending events at shutdown; zero keeps the client default.
	DrainTimeout time.Duration `koanf:"draintimeout"`
}

// Name returns the connection name reported to the server.
func (c *NATSConfig) Name() string {
	if c.ClientName == "" {
		return DefaultNATSClientName
	}
	return c.ClientName
}

func (c *NATSConfig) String() string {
	if !c.Enabled {
		return "\n--- NATS ---\n  enabled: false (catalog events are not published)\n"
	}
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  url: %s\n", c.Url))
	b.WriteString(fmt.Sprintf("  client: %s\n", c.Name()))
	b.WriteString(fmt.Sprintf("  timeout: %s, drain: %s\n", c.Timeout, c.DrainTimeout))
	return b.String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	// nats.Connect accepts a comma-separated server list.
	for _, server := range strings.Split(c.Url, ",") {
		u, err := url.Parse(strings.TrimSpace(server))
		if err != nil {
			return fmt.Errorf("NATS URL %q is invalid: %w", server, err)
		}
		switch u.Scheme {
		case "nats", "tls", "ws", "wss":
		default:
			return fmt.Errorf("NATS URL %q has unsupported scheme %q", server, u.Scheme)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("NATS dial timeout is not configured")
	}
	if c.DrainTimeout < 0 {
		return fmt.Errorf("NATS drain timeout must not be negative")
	}
	return nil
}
