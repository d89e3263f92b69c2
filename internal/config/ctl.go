package config

import (
	"strings"

	"github.com/abgdnv/gocatalog/pkg/config"
	"github.com/abgdnv/gocatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*CtlConfig)(nil)

// CtlConfig configures the catalogctl command-line client.
type CtlConfig struct {
	GrpcClient config.GrpcClientConfig `koanf:"grpcclient"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
}

func (c *CtlConfig) String() string {
	var b strings.Builder
	b.WriteString(c.GrpcClient.String())
	b.WriteString(c.Resilience.String())
	return b.String()
}

func (c *CtlConfig) Validate() error {
	if err := c.GrpcClient.Validate(); err != nil {
		return err
	}
	return c.Resilience.Validate()
}
