// Package assets defines the read-only catalog interface the core
// consumes; producing it by parsing the game's Unity-style binary asset
// container for XML/sprite data is explicitly out of scope per spec §1.
// Load here only fingerprints the configured resource file so the proxy
// can log which build of the client's assets it's running against, and
// hands back a Static catalog that a deployment populates from its own
// extracted tables.
package assets

import (
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Load fingerprints the asset resource file at path with BLAKE2b (the
// same "keyless, fast, cryptographically sound" hash the original
// proxy's asset checksum helper uses) and returns an empty Static
// catalog for the caller to populate. An unreadable path is a non-fatal
// condition the caller is free to treat as a fallback.
func Load(path string) (*Static, error) {
	if path == "" {
		return nil, fmt.Errorf("assets: no resource path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: reading %s: %w", path, err)
	}
	sum := blake2b.Sum256(data)
	return &Static{
		Hazards:      make(map[uint16]int64),
		Pushing:      make(map[uint16]bool),
		DamageRanges: make(map[uint16][2]int64),
		EnchantMults: make(map[int16]int64),
		Fingerprint:  sum,
	}, nil
}

// Catalog is everything the proxy's core logic needs to know about
// object/tile/projectile types, independent of how it was built.
type Catalog interface {
	// HazardDamage returns the raw damage a hazardous tile type deals,
	// and whether tileType is hazardous at all.
	HazardDamage(tileType uint16) (damage int64, ok bool)
	// IsPushingTile reports whether a tile type forcibly drifts the
	// client's local simulation (a conveyor-like tile).
	IsPushingTile(tileType uint16) bool
	// StickyGroundTile is the fixed inert tile id anti-push substitutes
	// in place of a pushing tile.
	StickyGroundTile() uint16
	// ProjectileDamageRange returns the catalog's min/max damage for an
	// object's default projectile, used to roll own-shot damage.
	ProjectileDamageRange(objectType uint16) (min, max int64, ok bool)
	// SelfDamageMultPercent returns the percentage bonus an enchantment
	// id contributes to self-inflicted damage (0 if none).
	SelfDamageMultPercent(enchantID int16) int64
}

// Static is a trivial in-memory Catalog built from fixed maps, suitable
// for tests and for a minimal deployment that doesn't load the real
// Unity asset container.
type Static struct {
	Hazards       map[uint16]int64
	Pushing       map[uint16]bool
	StickyTile    uint16
	DamageRanges  map[uint16][2]int64
	EnchantMults  map[int16]int64
	Fingerprint   [32]byte
}

func (s *Static) HazardDamage(tileType uint16) (int64, bool) {
	d, ok := s.Hazards[tileType]
	return d, ok
}

func (s *Static) IsPushingTile(tileType uint16) bool {
	return s.Pushing[tileType]
}

func (s *Static) StickyGroundTile() uint16 {
	return s.StickyTile
}

func (s *Static) ProjectileDamageRange(objectType uint16) (int64, int64, bool) {
	r, ok := s.DamageRanges[objectType]
	if !ok {
		return 0, 0, false
	}
	return r[0], r[1], true
}

func (s *Static) SelfDamageMultPercent(enchantID int16) int64 {
	return s.EnchantMults[enchantID]
}
