package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/permit721/internal/registry"
)

func TestSupportsInterface(t *testing.T) {
	r := newTestRegistry(t)

	for _, id := range []registry.InterfaceID{
		registry.IDERC165,
		registry.IDERC721,
		registry.IDMetadata,
		registry.IDEnumerable,
		registry.IDReceiver,
		registry.IDPermit,
	} {
		assert.True(t, r.SupportsInterface(id), "%s should be supported", id)
	}

	assert.False(t, r.SupportsInterface(registry.InterfaceID{0xff, 0xff, 0xff, 0xff}))
	assert.False(t, r.SupportsInterface(registry.InterfaceID{}))
}

func TestAcceptanceSelectorMatchesReceiverID(t *testing.T) {
	// onERC721Received's selector doubles as the receiver interface id.
	assert.Equal(t, [4]byte(registry.IDReceiver), registry.AcceptanceSelector)
}

func TestParseInterfaceID(t *testing.T) {
	id, err := registry.ParseInterfaceID("0x80ac58cd")
	require.NoError(t, err)
	assert.Equal(t, registry.IDERC721, id)
	assert.Equal(t, "0x80ac58cd", id.String())

	id, err = registry.ParseInterfaceID("5604e225")
	require.NoError(t, err)
	assert.Equal(t, registry.IDPermit, id)

	_, err = registry.ParseInterfaceID("0xzzzz")
	assert.Error(t, err)
	_, err = registry.ParseInterfaceID("0x80ac58")
	assert.Error(t, err)
	_, err = registry.ParseInterfaceID("0x80ac58cdff")
	assert.Error(t, err)
}
