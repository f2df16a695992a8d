package session

import (
	"context"
	"log/slog"

	"github.com/udisondev/rotmguard-proxy/internal/autonexus"
	"github.com/udisondev/rotmguard-proxy/internal/commands"
	"github.com/udisondev/rotmguard-proxy/internal/packets"
	"github.com/udisondev/rotmguard-proxy/internal/projectile"
	"github.com/udisondev/rotmguard-proxy/internal/protocol"
	"github.com/udisondev/rotmguard-proxy/internal/world"
)

// handleClient implements the C→S handler chain (spec §4.7): parse,
// consult/mutate state, forward-or-drop, possibly inject extra packets in
// either direction.
func (s *Session) handleClient(ctx context.Context, id uint8, body []byte) error {
	// Every escape decision is made on a client packet; pick up a threshold
	// changed at runtime (e.g. by /autonexus) before deciding.
	s.autonexus.Threshold = s.settings.AutonexusHP()

	switch id {
	case protocol.CPlayerText:
		pt, err := packets.DecodePlayerText(body)
		if err != nil {
			slog.Warn("session: malformed PlayerText, forwarding", "err", err)
			return s.forwardToServer(ctx, id, body)
		}
		if commands.IsCommand(pt.Text) {
			return s.runCommand(ctx, id, body, pt.Text)
		}
		return s.forwardToServer(ctx, id, body)

	case protocol.CPlayerShoot:
		ps, err := packets.DecodePlayerShoot(body)
		if err == nil {
			s.registerOwnShot(ps)
		}
		return s.forwardToServer(ctx, id, body)

	case protocol.CPlayerHit:
		ph, err := packets.DecodePlayerHit(body)
		if err != nil {
			return s.forwardToServer(ctx, id, body)
		}
		ref := projectile.Ref{BulletID: ph.BulletID, Owner: ph.OwnerID}
		seen := s.world.Object(world.ObjectID(ph.OwnerID)) != nil
		escape, err := s.autonexus.OnPlayerHit(ref, seen)
		if err != nil {
			slog.Warn("session: player hit coherence violation", "err", err)
		}
		if escape {
			if err := s.injectEscape(ctx); err != nil {
				return err
			}
			return nil // drop the triggering PlayerHit
		}
		return s.forwardToServer(ctx, id, body)

	case protocol.CGroundDamage:
		gd, err := packets.DecodeGroundDamage(body)
		if err != nil {
			return s.forwardToServer(ctx, id, body)
		}
		escape, err := s.autonexus.OnGroundDamage(world.TilePos{X: gd.X, Y: gd.Y})
		if err != nil {
			slog.Warn("session: ground damage coherence violation", "err", err)
		}
		if escape {
			if err := s.injectEscape(ctx); err != nil {
				return err
			}
			return nil
		}
		return s.forwardToServer(ctx, id, body)

	case protocol.CAoeAck:
		ack, err := packets.DecodeAoeAck(body)
		if err != nil {
			return s.forwardToServer(ctx, id, body)
		}
		escape, err := s.autonexus.OnAoeAck(autonexus.WorldPos{X: ack.X, Y: ack.Y})
		if err != nil {
			slog.Warn("session: aoe ack coherence violation", "err", err)
		}
		if escape {
			if err := s.injectEscape(ctx); err != nil {
				return err
			}
			return nil // drop the triggering AoeAck
		}
		return s.forwardToServer(ctx, id, body)

	case protocol.CMove:
		mv, err := packets.DecodeMove(body)
		if err != nil {
			return s.forwardToServer(ctx, id, body)
		}
		self := s.world.Self()
		var serverHP, maxHP int64
		if self != nil {
			serverHP, maxHP = self.Stats.HP, self.Stats.MaxHP
		}
		escape, err := s.autonexus.OnMove(world.TickID(mv.TickID), serverHP, maxHP)
		if err != nil {
			slog.Warn("session: move coherence violation", "err", err)
		}
		if err := s.forwardToServer(ctx, id, body); err != nil {
			return err
		}
		if escape {
			return s.injectEscape(ctx)
		}
		return nil

	default:
		return s.forwardToServer(ctx, id, body)
	}
}

// handleServer implements the S→C handler chain.
func (s *Session) handleServer(ctx context.Context, id uint8, body []byte) error {
	switch id {
	case protocol.SEnemyShoot:
		es, err := packets.DecodeEnemyShoot(body)
		if err == nil {
			s.autonexus.OnEnemyShoot(es.OwnerID, es.BulletID, int(max8(es.NumShots, 1)), int64(es.Damage), false)
		}
		return s.forwardToClient(ctx, id, body)

	case protocol.SAoe:
		ao, err := packets.DecodeAoe(body)
		if err == nil {
			s.autonexus.OnAoe(toAOERecord(ao))
		}
		return s.forwardToClient(ctx, id, body)

	case protocol.SNotification:
		nf, err := packets.DecodeNotification(body)
		if err == nil {
			s.maybeAccrueHeal(nf)
		}
		return s.forwardToClient(ctx, id, body)

	case protocol.SNewTick:
		return s.handleNewTick(ctx, id, body)

	case protocol.SUpdate:
		return s.handleUpdate(ctx, id, body)

	case protocol.SCreateSucc:
		cs, err := packets.DecodeCreateSuccess(body)
		if err == nil {
			s.world.SelfID = world.ObjectID(cs.ObjectID)
		}
		return s.forwardToClient(ctx, id, body)

	default:
		return s.forwardToClient(ctx, id, body)
	}
}

func max8(a, b byte) byte {
	if a == 0 {
		return b
	}
	return a
}

func (s *Session) forwardToServer(ctx context.Context, id uint8, body []byte) error {
	return s.serverWriter.Send(ctx, id, body)
}

func (s *Session) forwardToClient(ctx context.Context, id uint8, body []byte) error {
	return s.clientWriter.Send(ctx, id, body)
}

// injectEscape sends the one-byte escape packet (id 105, empty body)
// toward the server — the whole point of the autonexus subsystem.
func (s *Session) injectEscape(ctx context.Context) error {
	return s.serverWriter.Send(ctx, protocol.CEscape, nil)
}

func (s *Session) registerOwnShot(ps packets.PlayerShoot) {
	self := s.world.Self()
	if self == nil {
		return
	}
	min, max, ok := s.catalogDamageRange(self.TypeID)
	if !ok {
		return
	}
	dmg := s.roller.Roll(min, max)
	s.bullets.Register(ps.OwnerID, ps.BulletID, 1, projectile.Record{Damage: dmg})
}

func (s *Session) catalogDamageRange(objectType uint16) (int64, int64, bool) {
	return s.catalog.ProjectileDamageRange(objectType)
}

func (s *Session) maybeAccrueHeal(nf packets.Notification) {
	const colorGreen = 0x00ff00
	self := s.world.Self()
	if self == nil || nf.Color != colorGreen || nf.TargetID != int64(self.ID) {
		return
	}
	amount, err := parseHealOrLog(nf.Text)
	if err != nil {
		slog.Debug("session: ignoring unparsable heal notification", "err", err)
		return
	}
	s.autonexus.OnHealNotification(amount)
}
