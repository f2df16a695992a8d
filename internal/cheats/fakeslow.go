package cheats

import "github.com/udisondev/rotmguard-proxy/internal/world"

// FakeSlow adds the SLOW condition bit to the self status whenever one is
// seen on the wire, and separately tracks whether the current tick's
// NewTick already carried a self-status record to piggyback the bit onto
// — if it didn't, the router must inject a synthetic self-status record,
// the one packet-growth path outside autonexus (spec §4.7.3).
type FakeSlow struct {
	synced bool // true once this tick's self status has been patched/injected
}

func NewFakeSlow() *FakeSlow {
	return &FakeSlow{}
}

// Apply ORs the slow bit into cond.
func (f *FakeSlow) Apply(cond world.ConditionBits) world.ConditionBits {
	return cond.WithSlow()
}

// MarkSynced records that this tick's NewTick carried a self-status
// record, so the router does not inject a synthetic one for the same tick.
func (f *FakeSlow) MarkSynced() { f.synced = true }

// NeedsInjection reports whether a NewTick finished without ever seeing a
// self-status record to patch, meaning the router must append one.
func (f *FakeSlow) NeedsInjection() bool { return !f.synced }

// ResetTick clears the sync flag at the start of a new NewTick.
func (f *FakeSlow) ResetTick() { f.synced = false }
