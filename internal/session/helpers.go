package session

import (
	"github.com/udisondev/rotmguard-proxy/internal/autonexus"
	"github.com/udisondev/rotmguard-proxy/internal/packets"
	"github.com/udisondev/rotmguard-proxy/internal/world"
)

func toAOERecord(a packets.Aoe) autonexus.AOERecord {
	rec := autonexus.AOERecord{
		Center:      autonexus.WorldPos{X: a.X, Y: a.Y},
		Radius:      a.Radius,
		Damage:      int64(a.Damage),
		ArmorPierce: a.ArmorPiercing,
	}
	if a.ConditionBit >= 0 {
		rec.Condition = &autonexus.ConditionInflict{
			Bit:         world.ConditionBits(1) << uint(a.ConditionBit),
			RemainingMs: int64(a.DurationMs),
		}
	}
	return rec
}

func parseHealOrLog(payload string) (int64, error) {
	return autonexus.ParseHealAmount(payload)
}
