package cheats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/rotmguard-proxy/internal/world"
)

func TestFakeSlowApplySetsSlowBit(t *testing.T) {
	f := NewFakeSlow()
	cond := f.Apply(world.ConditionBits(0))
	assert.True(t, cond.Slow())
}

func TestFakeSlowNeedsInjectionOnlyUntilSynced(t *testing.T) {
	f := NewFakeSlow()
	assert.True(t, f.NeedsInjection(), "a fresh tick with no self status yet must need injection")

	f.MarkSynced()
	assert.False(t, f.NeedsInjection())

	f.ResetTick()
	assert.True(t, f.NeedsInjection(), "the flag must reset at the start of the next tick")
}
