// Package projectile tracks in-flight shots so a later PlayerHit or
// AoeAck can be resolved against the damage and properties the
// corresponding shoot packet announced. Grounded on the original proxy's
// bullet cache (module/autonexus.rs BULLET_CACHE_SIZE=10_000) but backed
// by a real bounded LRU rather than a hand-rolled age list, using
// github.com/hashicorp/golang-lru/v2 the way the retrieval pack's other
// network-facing repos use it for bounded associative caches.
package projectile

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Capacity matches the spec's "≥10,000 entries" sizing; the wire emits
// bullets faster than they can be detected as gone, so the bound exists
// to cap memory, not correctness — an evicted-before-hit bullet degrades
// to the "unknown bullet" escape path like any other coherence miss.
const Capacity = 10_000

// Ref is the (bullet_id, owner) pair that alone, unlike bullet_id, is
// unique enough to key a shot.
type Ref struct {
	BulletID uint16
	Owner    uint32
}

// Record is what a shoot packet contributes to the cache: enough for the
// eventual hit to compute damage without re-deriving it.
type Record struct {
	Damage      int64
	Summoner    *uint32
	ObjectType  uint16
	BulletType  uint8
	ArmorPierce bool
}

// Cache is a bounded LRU of in-flight shots, one per session.
type Cache struct {
	lru *lru.Cache[Ref, Record]
}

func NewCache() *Cache {
	c, err := lru.New[Ref, Record](Capacity)
	if err != nil {
		// Only returns an error for a non-positive size, which Capacity
		// never is; a session can't meaningfully continue without this
		// cache so this is the one place the proxy panics at construction.
		panic(err)
	}
	return &Cache{lru: c}
}

// Register records numshots entries starting at bulletID, the shape
// EnemyShoot/PlayerShoot/ServerPlayerShoot all share.
func (c *Cache) Register(owner uint32, bulletID uint16, numshots int, rec Record) {
	for i := 0; i < numshots; i++ {
		c.lru.Add(Ref{BulletID: bulletID + uint16(i), Owner: owner}, rec)
	}
}

// Consume pops (removes) the entry for ref, the one-shot-consumption rule
// PlayerHit relies on. ok is false if the bullet was never registered or
// has already been consumed/evicted.
func (c *Cache) Consume(ref Ref) (Record, bool) {
	rec, ok := c.lru.Get(ref)
	if ok {
		c.lru.Remove(ref)
	}
	return rec, ok
}

// Len reports the current number of cached in-flight shots (test/diagnostic use).
func (c *Cache) Len() int {
	return c.lru.Len()
}
