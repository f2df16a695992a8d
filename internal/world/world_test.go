package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionBitsAccessors(t *testing.T) {
	var c ConditionBits
	assert.False(t, c.Armored())

	c = c.set(bitArmored)
	assert.True(t, c.Armored())
	assert.False(t, c.ArmorBroken())

	c = c.clear(bitArmored)
	assert.False(t, c.Armored())
}

func TestMaskDebuffsOnlyClearsEnabledBits(t *testing.T) {
	c := ConditionBits(0).set(bitBlind).set(bitCursed).set(bitHexed)

	masked := c.MaskDebuffs(DebuffToggles{Blind: true, Hexed: true})

	assert.False(t, masked.Blind())
	assert.False(t, masked.Hexed())
	assert.True(t, masked.Cursed(), "non-debuff condition bits must survive masking")
}

func TestWithSlowIsAdditive(t *testing.T) {
	c := ConditionBits(0).set(bitArmored)
	slowed := c.WithSlow()
	assert.True(t, slowed.Slow())
	assert.True(t, slowed.Armored())
}

func TestStateObjectLifecycle(t *testing.T) {
	s := NewState()
	assert.Nil(t, s.Object(1))

	obj := s.UpsertObject(1, 100)
	assert.Equal(t, ObjectID(1), obj.ID)
	assert.Equal(t, uint16(100), obj.TypeID)
	assert.Same(t, obj, s.Object(1))

	// Duplicate creation replaces, per the wire's "duplicate id means
	// full replace" rule.
	replaced := s.UpsertObject(1, 200)
	assert.NotSame(t, obj, replaced)
	assert.Equal(t, uint16(200), s.Object(1).TypeID)

	s.RemoveObject(1)
	assert.Nil(t, s.Object(1))

	// Removing an unknown id is a tolerated no-op.
	s.RemoveObject(999)
}

func TestStateSelfShortcut(t *testing.T) {
	s := NewState()
	assert.Nil(t, s.Self())

	s.UpsertObject(42, 1)
	s.SelfID = 42
	assert.Equal(t, ObjectID(42), s.Self().ID)
}

func TestStateTileTracking(t *testing.T) {
	s := NewState()
	pos := TilePos{X: 5, Y: -5}

	_, ok := s.Tile(pos)
	assert.False(t, ok)

	s.SetTile(pos, 7, true)
	typ, ok := s.Tile(pos)
	assert.True(t, ok)
	assert.Equal(t, uint16(7), typ)

	// Retiling to an uninteresting type implicitly forgets the tile.
	s.SetTile(pos, 0, false)
	_, ok = s.Tile(pos)
	assert.False(t, ok)
}

func TestIsStringStat(t *testing.T) {
	assert.True(t, IsStringStat(StatType(6)))
	assert.False(t, IsStringStat(StatHP))
}
