package projectile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheRegisterAndConsume(t *testing.T) {
	c := NewCache()
	c.Register(1, 100, 3, Record{Damage: 25})

	for _, bid := range []uint16{100, 101, 102} {
		rec, ok := c.Consume(Ref{BulletID: bid, Owner: 1})
		assert.True(t, ok, "bullet %d should have been registered", bid)
		assert.Equal(t, int64(25), rec.Damage)
	}
}

func TestCacheConsumeIsOneShot(t *testing.T) {
	c := NewCache()
	c.Register(1, 50, 1, Record{Damage: 10})

	_, ok := c.Consume(Ref{BulletID: 50, Owner: 1})
	assert.True(t, ok)

	_, ok = c.Consume(Ref{BulletID: 50, Owner: 1})
	assert.False(t, ok, "consuming the same bullet twice must fail the second time")
}

func TestCacheConsumeUnknownRefFails(t *testing.T) {
	c := NewCache()
	_, ok := c.Consume(Ref{BulletID: 1, Owner: 1})
	assert.False(t, ok)
}

func TestCacheDistinguishesOwner(t *testing.T) {
	c := NewCache()
	c.Register(1, 1, 1, Record{Damage: 10})
	_, ok := c.Consume(Ref{BulletID: 1, Owner: 2})
	assert.False(t, ok, "the same bullet id from a different owner is a distinct key")
}
