package config

import (
	"fmt"
	"strings"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig selects where catalog records live.
type StorageConfig struct {
	Backend  string         `koanf:"backend"`
	Postgres DatabaseConfig `koanf:"postgres"`
}

// String returns a string representation of the storage configuration.
func (c *StorageConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  backend: %s\n", c.Backend))
	if c.Backend == StoragePostgres {
		b.WriteString(c.Postgres.String())
	}
	return b.String()
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case StorageMemory:
		return nil
	case StoragePostgres:
		return c.Postgres.Validate()
	default:
		return fmt.Errorf("unknown storage backend %q, expected %q or %q", c.Backend, StorageMemory, StoragePostgres)
	}
}
