package config

import "fmt"

// Log formats accepted by LogConfig.Format.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LogConfig selects the catalog log level and record format. JSON is the default
// because the service's records are shipped to a log store; text suits a terminal.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (c *LogConfig) String() string {
	format := c.Format
	if format == "" {
		format = LogFormatJSON
	}
	return fmt.Sprintf("\n--- Log ---\n  level: %s\n  format: %s\n", c.Level, format)
}

func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch c.Format {
	case "", LogFormatJSON, LogFormatText:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}
