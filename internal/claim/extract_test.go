package claim

import (
	"testing"

	"github.com/annassistant/annad/internal/evidence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumeric(t *testing.T) {
	claims := Extract("The system uses 1.5 GiB of memory right now.")
	require.Len(t, claims, 1)
	n, ok := claims[0].(Numeric)
	require.True(t, ok)
	assert.Equal(t, "system", n.Subject)
	assert.Equal(t, uint64(1610612736), n.Bytes)
}

func TestExtractNumericRejectsVagueSubject(t *testing.T) {
	claims := Extract("It uses 512 MiB of memory.")
	assert.Empty(t, claims)
}

func TestExtractPercent(t *testing.T) {
	claims := Extract("/ is 84% full right now.")
	require.Len(t, claims, 1)
	p, ok := claims[0].(Percent)
	require.True(t, ok)
	assert.Equal(t, "/", p.Mount)
	assert.Equal(t, 84, p.Percent)
}

func TestExtractPercentResolvesAlias(t *testing.T) {
	claims := Extract("home is 50% used.")
	require.Len(t, claims, 1)
	p := claims[0].(Percent)
	assert.Equal(t, "/home", p.Mount)
}

func TestExtractStatus(t *testing.T) {
	claims := Extract("nginx is failed right now.")
	require.Len(t, claims, 1)
	s, ok := claims[0].(Status)
	require.True(t, ok)
	assert.Equal(t, "nginx.service", s.Service)
	assert.Equal(t, "failed", s.State)
}

func TestGroundNumericWithinTolerance(t *testing.T) {
	mem := evidence.Memory{TotalBytes: 16 * 1024 * 1024 * 1024, UsedBytes: 8 * 1024 * 1024 * 1024, AvailableBytes: 8 * 1024 * 1024 * 1024}
	c := Numeric{Subject: "memory", Bytes: 8*1024*1024*1024 + 1024}
	assert.True(t, Ground(c, []evidence.Data{mem}))
}

func TestGroundPercentRejectsOutOfTolerance(t *testing.T) {
	disk := evidence.Disk{Entries: []evidence.DiskEntry{{MountPoint: "/", UsePercent: 50}}}
	c := Percent{Mount: "/", Percent: 80}
	assert.False(t, Ground(c, []evidence.Data{disk}))
}

func TestGroundStatusCaseInsensitive(t *testing.T) {
	svc := evidence.Services{Entries: []evidence.ServiceEntry{{Name: "nginx.service", State: evidence.StateFailed}}}
	c := Status{Service: "nginx.service", State: "FAILED"}
	assert.True(t, Ground(c, []evidence.Data{svc}))
}

func TestAllGroundedEmptyClaimsTrivial(t *testing.T) {
	assert.True(t, AllGrounded(nil, nil))
}
