package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/udisondev/rotmguard-proxy/internal/packets"
	"github.com/udisondev/rotmguard-proxy/internal/protocol"
)

// runCommand dispatches a chat command and turns its Effect into injected
// client-bound packets. A slash-prefixed verb the handler doesn't
// recognise is forwarded to the server unchanged, per spec §6.4.
func (s *Session) runCommand(ctx context.Context, id uint8, body []byte, text string) error {
	handled, effect := s.cmds.Handle(text)
	if !handled {
		return s.forwardToServer(ctx, id, body)
	}

	for _, n := range effect.Notifications {
		if err := s.sendNotification(ctx, n.Color, n.Text); err != nil {
			return err
		}
	}
	for _, se := range effect.ShowEffects {
		if err := s.sendShowEffect(ctx, se.EffectType, se.Duration); err != nil {
			return err
		}
	}
	if effect.Reconnect != nil {
		r := effect.Reconnect
		body := packets.EncodeReconnect(packets.Reconnect{
			Host: r.Host, Port: r.Port, GameID: r.GameID, KeyTime: r.KeyTime,
		})
		if err := s.forwardToClient(ctx, protocol.SReconnect, body); err != nil {
			return err
		}
	}
	if effect.ToggleAntipush {
		s.settings.ToggleAntipush()
	}
	if effect.ToggleFakeSlow {
		s.settings.ToggleFakeSlow()
	}
	if effect.ToggleAntilag {
		s.settings.SetAntilag(!s.settings.Antilag())
	}
	if effect.DamageReport != "" || hasDmgVerb(text) {
		if err := s.replyDamageReport(ctx, effect.DamageReport); err != nil {
			return err
		}
	}
	return nil
}

func hasDmgVerb(text string) bool {
	return len(text) >= 4 && text[:4] == "/dmg"
}

func (s *Session) sendNotification(ctx context.Context, color uint32, text string) error {
	body := packets.EncodeNotification(packets.Notification{Text: text, Color: color, TargetID: -1})
	return s.forwardToClient(ctx, protocol.SNotification, body)
}

func (s *Session) sendShowEffect(ctx context.Context, effectType uint8, duration float32) error {
	self := s.world.Self()
	var target *int64
	if self != nil {
		t := int64(self.ID)
		target = &t
	}
	d := duration
	body := packets.EncodeShowEffect(packets.ShowEffect{
		EffectType: effectType,
		Target:     target,
		Duration:   &d,
	})
	return s.forwardToClient(ctx, protocol.SShowEffect, body)
}

// replyDamageReport answers "/dmg [id|name]" by looking up the registry
// and injecting the result as a notification; empty arg reports the
// player's own tally.
func (s *Session) replyDamageReport(ctx context.Context, arg string) error {
	if s.damage == nil {
		return s.sendNotification(ctx, 0xff0000, "damage monitor disabled")
	}

	if arg == "" {
		self := s.world.Self()
		if self == nil {
			return s.sendNotification(ctx, 0xff0000, "no damage recorded yet")
		}
		arg = strconv.FormatUint(uint64(self.ID), 10)
	}

	var entry struct {
		found bool
		text  string
	}
	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		if e, ok := s.damage.ByID(uint32(id)); ok {
			entry.found = true
			entry.text = fmt.Sprintf("%s: %d dmg over %d hits", e.Name, e.TotalDealt, e.Hits)
		}
	} else if e, ok := s.damage.ByName(arg); ok {
		entry.found = true
		entry.text = fmt.Sprintf("%s: %d dmg over %d hits", e.Name, e.TotalDealt, e.Hits)
	}

	if !entry.found {
		return s.sendNotification(ctx, 0xff0000, "no damage recorded for "+arg)
	}
	return s.sendNotification(ctx, 0x00ff00, entry.text)
}
