package autonexus

import "github.com/udisondev/rotmguard-proxy/internal/world"

// ComputeHitDamage implements the spec's §4.7.1 step-3/4 formula, shared
// by PlayerHit and AoeAck resolution. Constants (the armor x1.5, the
// 10%-of-raw floor, the flat exposed bonus, the cursed/petrified
// multipliers) are the game's own balance numbers as captured by the
// original proxy; they are not tunable here, only the autonexus HP
// threshold is runtime-configurable.
func ComputeHitDamage(raw int64, armorPiercing bool, self world.Stats) int64 {
	var dmg int64
	if armorPiercing || self.Condition.ArmorBroken() {
		dmg = raw
	} else {
		def := self.Def
		if self.Condition.Armored() {
			def += def / 2 // x1.5
		}
		dmg = raw - def
		floor := raw / 10
		if dmg < floor {
			dmg = floor
		}
	}

	if self.Condition.Exposed() {
		dmg += 20
	}
	if self.Condition.Cursed() {
		dmg += dmg / 4 // x1.25, truncating
	}
	if self.Condition.Petrified() {
		dmg = (dmg * 9) / 10 // x0.9, truncating
	}

	return applySelfDamageMult(dmg, self)
}

// applySelfDamageMult scales dmg by the percentage bonus in
// self.ExaltBonus, rounded up. It does not look at the enchantment ids on
// equipped items (world.EquipSlot) or at the catalog's
// SelfDamageMultPercent table; nothing in the router sets ExaltBonus, so
// on the live path it is 0 and dmg is returned unchanged.
func applySelfDamageMult(dmg int64, self world.Stats) int64 {
	if self.ExaltBonus == 0 {
		return dmg
	}
	return ceilDiv(dmg*(100+self.ExaltBonus), 100)
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return a
	}
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
