package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{name: "memory", cfg: StorageConfig{Backend: StorageMemory}},
		{
			name: "postgres",
			cfg: StorageConfig{Backend: StoragePostgres, Postgres: DatabaseConfig{
				URL: "postgres://user:secret@db:5432/catalog", Timeout: 5 * time.Second,
			}},
		},
		{name: "postgres without url", cfg: StorageConfig{Backend: StoragePostgres}, wantErr: true},
		{
			name: "postgres with foreign scheme",
			cfg: StorageConfig{Backend: StoragePostgres, Postgres: DatabaseConfig{
				URL: "mysql://db", Timeout: time.Second,
			}},
			wantErr: true,
		},
		{name: "unknown backend", cfg: StorageConfig{Backend: "sqlite"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStorageConfig_StringMasksCredentials(t *testing.T) {
	// given
	cfg := StorageConfig{Backend: StoragePostgres, Postgres: DatabaseConfig{URL: "postgres://user:secret@db:5432/catalog"}}

	// when
	out := cfg.String()

	// then
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "postgres://****@db:5432/catalog")
}

func TestNATSConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     NATSConfig
		wantErr bool
	}{
		{name: "disabled broker needs no settings", cfg: NATSConfig{}},
		{name: "enabled without url", cfg: NATSConfig{Enabled: true}, wantErr: true},
		{name: "single server", cfg: NATSConfig{Enabled: true, Url: "nats://localhost:4222", Timeout: time.Second}},
		{name: "server list", cfg: NATSConfig{Enabled: true, Url: "nats://a:4222, tls://b:4222", Timeout: time.Second}},
		{name: "foreign scheme", cfg: NATSConfig{Enabled: true, Url: "http://localhost:4222", Timeout: time.Second}, wantErr: true},
		{name: "missing timeout", cfg: NATSConfig{Enabled: true, Url: "nats://localhost:4222"}, wantErr: true},
		{name: "negative drain", cfg: NATSConfig{Enabled: true, Url: "nats://localhost:4222", Timeout: time.Second, DrainTimeout: -time.Second}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNATSConfig_Name(t *testing.T) {
	assert.Equal(t, DefaultNATSClientName, (&NATSConfig{}).Name())
	assert.Equal(t, "catalog-eu", (&NATSConfig{ClientName: "catalog-eu"}).Name())
}

func TestShutdownConfig(t *testing.T) {
	assert.Error(t, (&ShutdownConfig{}).Validate())
	assert.Error(t, (&ShutdownConfig{Timeout: MaxShutdownTimeout + time.Second}).Validate())
	cfg := &ShutdownConfig{Timeout: 5 * time.Second}
	require.NoError(t, cfg.Validate())

	// when
	ctx, cancel := cfg.Context()
	defer cancel()

	// then
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestPProfConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     PProfConfig
		wantErr bool
	}{
		{name: "disabled", cfg: PProfConfig{}},
		{name: "loopback", cfg: PProfConfig{Enabled: true, Addr: "localhost:6060"}},
		{name: "every interface", cfg: PProfConfig{Enabled: true, Addr: ":6060"}, wantErr: true},
		{name: "no port", cfg: PProfConfig{Enabled: true, Addr: "localhost"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResilienceConfig(t *testing.T) {
	valid := ResilienceConfig{
		Retry:          RetryConfig{MaxAttempts: 3, InitialBackoff: 100 * time.Millisecond},
		CircuitBreaker: CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 60, OpenTimeout: time.Second},
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, DefaultBreakerName, valid.CircuitBreaker.BreakerName())
	assert.Contains(t, valid.String(), `breaker "catalog-client"`)

	// every problem is reported at once
	err := (&ResilienceConfig{CircuitBreaker: CircuitBreakerConfig{ErrorRatePercent: 101}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resilience.retry.maxattempts")
	assert.Contains(t, err.Error(), "resilience.circuitbreaker.errorratepercent")
}

func TestGrpcClientConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     GrpcClientConfig
		wantErr bool
	}{
		{name: "host and port", cfg: GrpcClientConfig{Addr: "localhost:50051", Timeout: time.Second}},
		{name: "resolver uri", cfg: GrpcClientConfig{Addr: "dns:///catalog:50051", Timeout: time.Second}},
		{name: "missing port", cfg: GrpcClientConfig{Addr: "localhost", Timeout: time.Second}, wantErr: true},
		{name: "missing address", cfg: GrpcClientConfig{Timeout: time.Second}, wantErr: true},
		{name: "missing timeout", cfg: GrpcClientConfig{Addr: "localhost:50051"}, wantErr: true},
		{
			name:    "non-positive operation timeout",
			cfg:     GrpcClientConfig{Addr: "localhost:50051", Timeout: time.Second, OpTimeouts: map[string]time.Duration{"stockValuation": 0}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("operation timeouts", func(t *testing.T) {
		cfg := GrpcClientConfig{Timeout: time.Second, OpTimeouts: map[string]time.Duration{"stockvaluation": time.Minute}}
		assert.Equal(t, time.Minute, cfg.TimeoutFor("stockValuation"))
		assert.Equal(t, time.Second, cfg.TimeoutFor("getProductById"))
	})
}

func TestTelemetryConfig_Validate(t *testing.T) {
	assert.NoError(t, (&TelemetryConfig{}).Validate())
	assert.Error(t, (&TelemetryConfig{Traces: TracesConfig{Enabled: true}}).Validate())
	assert.Error(t, (&TelemetryConfig{Metrics: MetricsConfig{Enabled: true, Path: "metrics"}}).Validate())
	assert.NoError(t, (&TelemetryConfig{Metrics: MetricsConfig{Enabled: true, Path: "/metrics"}}).Validate())
}

func TestLogConfig_Validate(t *testing.T) {
	assert.NoError(t, (&LogConfig{Level: "warn"}).Validate())
	assert.NoError(t, (&LogConfig{Level: "debug", Format: LogFormatText}).Validate())
	assert.Error(t, (&LogConfig{Level: "verbose"}).Validate())
	assert.Error(t, (&LogConfig{Format: "xml"}).Validate())
}
