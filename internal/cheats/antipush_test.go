package cheats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rotmguard-proxy/internal/world"
)

type fakeTileCatalog struct {
	pushing map[uint16]bool
	sticky  uint16
}

func (f fakeTileCatalog) IsPushingTile(t uint16) bool { return f.pushing[t] }
func (f fakeTileCatalog) StickyGroundTile() uint16    { return f.sticky }

func TestAntiPushRewritesOnlyPushingTiles(t *testing.T) {
	ap := NewAntiPush(fakeTileCatalog{pushing: map[uint16]bool{9: true}, sticky: 1})

	unaffected := ap.Rewrite(world.TilePos{X: 0, Y: 0}, 5)
	assert.Equal(t, uint16(5), unaffected)

	rewritten := ap.Rewrite(world.TilePos{X: 1, Y: 1}, 9)
	assert.Equal(t, uint16(1), rewritten)
	assert.True(t, ap.HasPending())
}

func TestAntiPushRestoreReturnsOriginalsOnce(t *testing.T) {
	ap := NewAntiPush(fakeTileCatalog{pushing: map[uint16]bool{9: true}, sticky: 1})
	pos := world.TilePos{X: 2, Y: 3}
	ap.Rewrite(pos, 9)

	originals := ap.Restore()
	require.Contains(t, originals, pos)
	assert.Equal(t, uint16(9), originals[pos])
	assert.False(t, ap.HasPending(), "a drained restore must not be owed twice")
}
