package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults().WorkerPool, cfg.WorkerPool)
	assert.Equal(t, "/run/anna", cfg.RuntimeDir)
}

func TestInitializeMergesOverrideFile(t *testing.T) {
	dir := t.TempDir()
	content := "worker_pool: 6\nverification_threshold: 90\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.WorkerPool)
	assert.Equal(t, 90, cfg.VerificationThreshold)
	// Unset fields keep their default.
	assert.Equal(t, 2, cfg.JuniorRoundsMax)
}

func TestInitializeEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "worker_pool: 6\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o644))

	t.Setenv("WORKER_POOL", "2")
	t.Setenv("VERIFICATION_THRESHOLD", "75")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.WorkerPool)
	assert.Equal(t, 75, cfg.VerificationThreshold)
}

func TestInitializeRejectsInvalidValue(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WORKER_POOL", "0")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}

func TestInitializeExpandsEnvInFile(t *testing.T) {
	dir := t.TempDir()
	content := "runtime_dir: ${ANNA_RUNTIME_TEST_DIR}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o644))
	t.Setenv("ANNA_RUNTIME_TEST_DIR", "/tmp/anna-test")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/anna-test", cfg.RuntimeDir)
}
