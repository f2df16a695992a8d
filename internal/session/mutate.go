package session

import (
	"context"

	"github.com/udisondev/rotmguard-proxy/internal/packets"
	"github.com/udisondev/rotmguard-proxy/internal/world"
)

// handleNewTick applies the world-mirror update, the autonexus tick
// bookkeeping, and the anti-debuff/fake-slow condition-bit edits, then
// forwards a freshly re-serialized body. Re-encoding the whole packet
// rather than patching bytes in place is a deliberate simplification over
// the spec's literal "same byte count" in-place edit: FramedWriter always
// recomputes the length prefix from the body it's handed, so a shorter
// canonical varint costs nothing — see DESIGN.md's note on this decision.
func (s *Session) handleNewTick(ctx context.Context, id uint8, body []byte) error {
	nt, err := packets.DecodeNewTick(body)
	if err != nil {
		return s.forwardToClient(ctx, id, body)
	}

	s.autonexus.OnNewTick(world.TickID(nt.TickID), int64(nt.DurationMs))
	s.fakeSlow.ResetTick()

	for i := range nt.Statuses {
		s.applyStatusToWorld(&nt.Statuses[i])
		if nt.Statuses[i].ObjectID == uint32(s.world.SelfID) {
			s.editSelfCondition(&nt.Statuses[i])
			s.fakeSlow.MarkSynced()
		}
	}

	if s.settings.FakeSlow() && s.fakeSlow.NeedsInjection() {
		nt.Statuses = append(nt.Statuses, s.syntheticSelfStatus())
	}

	return s.forwardToClient(ctx, id, packets.EncodeNewTick(nt))
}

// handleUpdate applies new/removed objects to the world mirror, rewrites
// pushing tiles when anti-push is enabled, restores them when it's been
// toggled off, and forwards the re-serialized body.
func (s *Session) handleUpdate(ctx context.Context, id uint8, body []byte) error {
	u, err := packets.DecodeUpdate(body)
	if err != nil {
		return s.forwardToClient(ctx, id, body)
	}

	for _, entry := range u.NewObjects {
		obj := s.world.UpsertObject(world.ObjectID(entry.Status.ObjectID), entry.TypeID)
		applyStatsToObject(obj, entry.Status.Stats)
	}
	for _, rid := range u.ToRemove {
		s.world.RemoveObject(world.ObjectID(rid))
	}

	if s.settings.Antipush() {
		for i := range u.Tiles {
			t := &u.Tiles[i]
			t.TileType = s.antiPush.Rewrite(world.TilePos{X: t.X, Y: t.Y}, t.TileType)
		}
	} else if s.antiPush.HasPending() {
		for pos, typ := range s.antiPush.Restore() {
			u.Tiles = append(u.Tiles, packets.TileData{X: pos.X, Y: pos.Y, TileType: typ})
		}
	}

	for _, t := range u.Tiles {
		s.world.SetTile(world.TilePos{X: t.X, Y: t.Y}, t.TileType, s.catalog.IsPushingTile(t.TileType) || s.isHazard(t.TileType))
	}

	return s.forwardToClient(ctx, id, packets.Encode(u))
}

func (s *Session) isHazard(tileType uint16) bool {
	_, ok := s.catalog.HazardDamage(tileType)
	return ok
}

func (s *Session) applyStatusToWorld(status *packets.ObjectStatusData) {
	obj := s.world.Object(world.ObjectID(status.ObjectID))
	if obj == nil {
		return // NewTick statuses apply to existing objects only
	}
	applyStatsToObject(obj, status.Stats)
}

func applyStatsToObject(obj *world.Object, stats []packets.Stat) {
	for _, st := range stats {
		switch st.Type {
		case world.StatHP:
			obj.Stats.HP = st.Value
		case world.StatMaxHP:
			obj.Stats.MaxHP = st.Value
		case world.StatDef:
			obj.Stats.Def = st.Value
		case world.StatVit:
			obj.Stats.Vit = st.Value
		case world.StatAtk:
			obj.Stats.Atk = st.Value
		case world.StatSpd:
			obj.Stats.Spd = st.Value
		case world.StatCondition:
			obj.Stats.Condition = world.ConditionBits(uint64(st.Value))
		case world.StatCondition2:
			obj.Stats.Condition2 = world.ConditionBits(uint64(st.Value))
		case world.StatLevel:
			obj.IsPlayer = true
		}
	}
}

// editSelfCondition masks configured debuffs and, if fake-slow is
// toggled on, forces the slow bit, directly on the decoded status's
// condition stat before re-encoding.
func (s *Session) editSelfCondition(status *packets.ObjectStatusData) {
	for i := range status.Stats {
		if status.Stats[i].Type != world.StatCondition {
			continue
		}
		bits := world.ConditionBits(uint64(status.Stats[i].Value))
		bits = bits.MaskDebuffs(s.debuffToggles())
		if s.settings.FakeSlow() {
			bits = s.fakeSlow.Apply(bits)
		}
		status.Stats[i].Value = int64(bits)
		return
	}
}

func (s *Session) debuffToggles() world.DebuffToggles {
	d := s.settings.Debuffs
	return world.DebuffToggles{
		Blind: d.Blind, Hallucinating: d.Hallucinating, Drunk: d.Drunk,
		Confused: d.Confused, Hexed: d.Hexed, Unstable: d.Unstable, Darkness: d.Darkness,
	}
}

// syntheticSelfStatus builds the injected self-status record fake-slow
// needs when a tick finishes without ever carrying one naturally.
func (s *Session) syntheticSelfStatus() packets.ObjectStatusData {
	self := s.world.Self()
	var x, y float32
	bits := world.ConditionBits(0)
	if self != nil {
		bits = self.Stats.Condition
	}
	bits = s.fakeSlow.Apply(bits)
	return packets.ObjectStatusData{
		ObjectID: uint32(s.world.SelfID),
		X:        x,
		Y:        y,
		Stats: []packets.Stat{
			{Type: world.StatCondition, Value: int64(bits)},
		},
	}
}
