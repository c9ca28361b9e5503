package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const failedOutput = `● nginx.service      loaded failed failed nginx - high performance web server
● postgresql.service loaded failed failed PostgreSQL database server`

func TestParseFailedUnits(t *testing.T) {
	data := ParseFailedUnits(failedOutput, 0)
	services, ok := data.(Services)
	require.True(t, ok, "expected Services, got %T", data)
	require.Len(t, services.Entries, 2)

	nginx, ok := services.ByName("nginx")
	require.True(t, ok)
	assert.Equal(t, StateFailed, nginx.State)
	assert.Contains(t, nginx.Description, "high performance web server")

	pg, ok := services.ByName("postgresql.service")
	require.True(t, ok)
	assert.Equal(t, StateFailed, pg.State)
}

func TestParseFailedUnitsEmptyIsValidEvidence(t *testing.T) {
	data := ParseFailedUnits("", 1)
	services, ok := data.(Services)
	require.True(t, ok, "empty --failed output with exit_code=1 must be valid evidence, got %T", data)
	assert.Empty(t, services.Entries)
}

func TestParseFailedUnitsSkipsFooterLine(t *testing.T) {
	withFooter := failedOutput + "\n2 loaded units listed.\n"
	data := ParseFailedUnits(withFooter, 0)
	services, ok := data.(Services)
	require.True(t, ok)
	assert.Len(t, services.Entries, 2)
}

func TestParseIsActive(t *testing.T) {
	data := ParseIsActive("nginx", "inactive\n")
	services, ok := data.(Services)
	require.True(t, ok)
	require.Len(t, services.Entries, 1)
	assert.Equal(t, "nginx.service", services.Entries[0].Name)
	assert.Equal(t, StateInactive, services.Entries[0].State)
}

func TestCanonicalServiceName(t *testing.T) {
	assert.Equal(t, "nginx.service", CanonicalServiceName("nginx"))
	assert.Equal(t, "nginx.timer", CanonicalServiceName("nginx.timer"))
}

func TestParseStatusVerbose(t *testing.T) {
	out := `● nginx.service - nginx - high performance web server
   Loaded: loaded (/usr/lib/systemd/system/nginx.service; enabled)
   Active: active (running) since Tue 2026-07-28 10:00:00 UTC; 2 days ago`

	data := ParseStatusVerbose("nginx", out)
	services, ok := data.(Services)
	require.True(t, ok)
	require.Len(t, services.Entries, 1)
	assert.Equal(t, StateActive, services.Entries[0].State)
	assert.Contains(t, services.Entries[0].Description, "high performance web server")
}

func TestStateIsUpDown(t *testing.T) {
	assert.True(t, StateRunning.IsUp())
	assert.True(t, StateActive.IsUp())
	assert.True(t, StateFailed.IsDown())
	assert.True(t, StateInactive.IsDown())
	assert.False(t, StateActivating.IsUp())
	assert.False(t, StateActivating.IsDown())
}
