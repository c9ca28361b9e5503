// Package config loads and validates Anna's daemon configuration:
// a built-in YAML default merged with an optional operator override file
// and then overridden by environment variables.
package config

import "time"

// Config holds the fully-resolved daemon configuration after merge and
// environment overrides. It is constructed once at startup by Initialize
// and passed by reference; nothing on the answer path mutates it.
type Config struct {
	// RuntimeDir is the directory containing the RPC unix socket.
	RuntimeDir string `yaml:"runtime_dir"`

	// WorkerPool bounds the number of probes executed concurrently
	// per request.
	WorkerPool int `yaml:"worker_pool"`

	// QueryDeadline bounds the overall time budget for a single query.
	QueryDeadline time.Duration `yaml:"-"`
	QueryDeadlineMs int `yaml:"query_deadline_ms"`

	// JuniorRoundsMax and SeniorRoundsMax bound the Ticket Loop's
	// verification rounds.
	JuniorRoundsMax int `yaml:"junior_rounds_max"`
	SeniorRoundsMax int `yaml:"senior_rounds_max"`

	// VerificationThreshold is the minimum review score a junior
	// review must report to mark a ticket Verified.
	VerificationThreshold int `yaml:"verification_threshold"`

	// HTTPAddr is the bind address for the ancillary, read-only
	// debug/health HTTP surface. Empty disables it.
	HTTPAddr string `yaml:"http_addr"`

	// LLMGRPCAddr is the optional specialist/translator gRPC backend
	// address. Empty means the deterministic stub is used exclusively.
	LLMGRPCAddr string `yaml:"llm_grpc_addr"`

	// AuditDSN is the Postgres DSN for the off-answer-path audit
	// persister. Empty disables audit persistence.
	AuditDSN string `yaml:"audit_dsn"`

	// MaxStdoutBytes and MaxStderrBytes record the probe output caps.
	// They are not passed to the executor, which always applies
	// probe.MaxStdoutBytes and probe.MaxStderrBytes (the same defaults).
	MaxStdoutBytes int `yaml:"max_stdout_bytes"`
	MaxStderrBytes int `yaml:"max_stderr_bytes"`
}

// Defaults returns the built-in configuration baseline.
func Defaults() Config {
	return Config{
		RuntimeDir:             "/run/anna",
		WorkerPool:             4,
		QueryDeadlineMs:        8000,
		JuniorRoundsMax:        2,
		SeniorRoundsMax:        1,
		VerificationThreshold:  80,
		HTTPAddr:               "127.0.0.1:8780",
		LLMGRPCAddr:            "",
		AuditDSN:               "",
		MaxStdoutBytes:         256 * 1024,
		MaxStderrBytes:         64 * 1024,
	}
}

// Validate checks invariants a malformed or hostile config file could
// violate. Configuration errors refuse daemon startup.
func (c *Config) Validate() error {
	if c.RuntimeDir == "" {
		return NewValidationError("runtime_dir", ErrInvalidValue)
	}
	if c.WorkerPool <= 0 || c.WorkerPool > 64 {
		return NewValidationError("worker_pool", ErrInvalidValue)
	}
	if c.QueryDeadlineMs <= 0 {
		return NewValidationError("query_deadline_ms", ErrInvalidValue)
	}
	if c.JuniorRoundsMax < 0 || c.SeniorRoundsMax < 0 {
		return NewValidationError("junior_rounds_max", ErrInvalidValue)
	}
	if c.VerificationThreshold < 0 || c.VerificationThreshold > 100 {
		return NewValidationError("verification_threshold", ErrInvalidValue)
	}
	return nil
}
