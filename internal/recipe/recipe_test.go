package recipe

import (
	"testing"

	"github.com/annassistant/annad/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupExactEntityBeatsDomainFallback(t *testing.T) {
	entry, ok := Lookup(router.DomainServices, "nginx")
	require.True(t, ok)
	assert.Equal(t, "systemctl restart nginx", entry.Hint)
}

func TestLookupFallsBackToDomainEntry(t *testing.T) {
	entry, ok := Lookup(router.DomainServices, "some-unlisted-unit")
	require.True(t, ok)
	assert.Equal(t, "systemctl restart <unit>", entry.Hint)
}

func TestLookupUnknownDomainMisses(t *testing.T) {
	_, ok := Lookup(router.DomainNetwork, "anything")
	assert.False(t, ok)
}

func TestLookupConfigEditHintCarriesTarget(t *testing.T) {
	entry, ok := Lookup(router.DomainOther, "vim")
	require.True(t, ok)
	require.NotNil(t, entry.Target)
	assert.Equal(t, "vim", entry.Target.AppID)
	assert.Equal(t, "$HOME/.vimrc", entry.Target.ConfigPathTemplate)
}
