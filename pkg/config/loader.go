package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// fileName is the operator-supplied override file looked up under
// configDir. It is optional; its absence is not an error.
const fileName = "anna.yaml"

// Initialize loads the built-in defaults, merges an optional override
// file found under configDir, expands environment variables in the raw
// YAML before merge, applies the fixed set of environment variable
// overrides, validates the result, and returns it.
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	cfg := Defaults()

	path := filepath.Join(configDir, fileName)
	if data, err := os.ReadFile(path); err == nil {
		data = ExpandEnv(data)

		var override Config
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
		}

		if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
			return nil, NewLoadError(path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, NewLoadError(path, err)
	}

	applyEnvOverrides(&cfg)
	cfg.QueryDeadline = time.Duration(cfg.QueryDeadlineMs) * time.Millisecond

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return &cfg, nil
}

// applyEnvOverrides layers a fixed set of environment variables on top
// of the merged file configuration. Unset or unparseable variables
// leave the existing value untouched.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUNTIME_DIR"); v != "" {
		cfg.RuntimeDir = v
	}
	if v, ok := envInt("WORKER_POOL"); ok {
		cfg.WorkerPool = v
	}
	if v, ok := envInt("QUERY_DEADLINE_MS"); ok {
		cfg.QueryDeadlineMs = v
	}
	if v, ok := envInt("JUNIOR_ROUNDS_MAX"); ok {
		cfg.JuniorRoundsMax = v
	}
	if v, ok := envInt("SENIOR_ROUNDS_MAX"); ok {
		cfg.SeniorRoundsMax = v
	}
	if v, ok := envInt("VERIFICATION_THRESHOLD"); ok {
		cfg.VerificationThreshold = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LLM_GRPC_ADDR"); v != "" {
		cfg.LLMGRPCAddr = v
	}
	if v := os.Getenv("AUDIT_DSN"); v != "" {
		cfg.AuditDSN = v
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
