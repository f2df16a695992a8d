// Package cheats holds the packet-level edit modules that are not part of
// the core damage simulation: anti-push tile substitution and fake-slow
// bit injection. Anti-debuff is pure enough (a bitmask AND) that it lives
// as a method on world.ConditionBits instead of a stateful module here.
//
// Grounded on the original proxy's module/anti_push.rs and
// module/fake_slow.rs.
package cheats

import "github.com/udisondev/rotmguard-proxy/internal/world"

// TileCatalog is the subset of AssetCatalog anti-push needs: which tiles
// push the player, and the fixed inert tile id to substitute.
type TileCatalog interface {
	IsPushingTile(typeID uint16) bool
	StickyGroundTile() uint16
}

// AntiPush remembers every pushing tile it has rewritten so it can
// restore the originals when toggled back off.
type AntiPush struct {
	catalog   TileCatalog
	originals map[world.TilePos]uint16
}

func NewAntiPush(catalog TileCatalog) *AntiPush {
	return &AntiPush{catalog: catalog, originals: make(map[world.TilePos]uint16)}
}

// Rewrite is called for every tile record in an outgoing Update body while
// anti-push is enabled. It returns the tile type id that should actually
// be written to the wire, substituting pushing tiles with the sticky
// ground id and remembering the original for later restoration.
func (a *AntiPush) Rewrite(pos world.TilePos, typeID uint16) uint16 {
	if !a.catalog.IsPushingTile(typeID) {
		return typeID
	}
	a.originals[pos] = typeID
	return a.catalog.StickyGroundTile()
}

// Restore drains the remembered originals so they can be appended as
// extra tile records to the next outgoing Update, undoing the
// substitution after anti-push is toggled off. The caller consumes the
// returned map and must not keep rewriting with Rewrite until this
// settles.
func (a *AntiPush) Restore() map[world.TilePos]uint16 {
	out := a.originals
	a.originals = make(map[world.TilePos]uint16)
	return out
}

// HasPending reports whether a restore is owed.
func (a *AntiPush) HasPending() bool {
	return len(a.originals) > 0
}
