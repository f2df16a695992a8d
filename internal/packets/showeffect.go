// Package packets implements typed parse/serialize for the handful of
// packet kinds the proxy's core actually interprets; everything else is
// forwarded as an opaque byte slice by the router. Grounded per-file on
// the original proxy's src/packets/_*.rs modules, one packet kind per
// file the way the original is laid out.
package packets

import "github.com/udisondev/rotmguard-proxy/internal/codec"

// ShowEffect bit layout, grounded on original_source's
// packets/_11_show_effect.rs.
const (
	bitColor    = 0x01
	bitPos1X    = 0x02
	bitPos1Y    = 0x04
	bitPos2X    = 0x08
	bitPos2Y    = 0x10
	bitDuration = 0x20
	bitTarget   = 0x40
	bitUnknown  = 0x80
)

type Vec2 struct{ X, Y float32 }

// ShowEffect is the S→C cosmetic-effect packet (id 11). Pos1/Pos2 are
// always present on the wire; the remaining fields are optional per the
// leading bitmask byte.
type ShowEffect struct {
	EffectType byte
	Target     *int64 // compressed int when present
	Pos1, Pos2 Vec2
	Color      *uint32
	Duration   *float32
	Unknown    *byte
}

func DecodeShowEffect(body []byte) (ShowEffect, error) {
	r := codec.NewReader(body)
	var se ShowEffect
	mask, err := r.Byte()
	if err != nil {
		return se, err
	}
	et, err := r.Byte()
	if err != nil {
		return se, err
	}
	se.EffectType = et

	if mask&bitTarget != 0 {
		v, err := r.CompressedInt()
		if err != nil {
			return se, err
		}
		se.Target = &v
	}
	if se.Pos1.X, err = r.Float32(); err != nil {
		return se, err
	}
	if se.Pos1.Y, err = r.Float32(); err != nil {
		return se, err
	}
	if se.Pos2.X, err = r.Float32(); err != nil {
		return se, err
	}
	if se.Pos2.Y, err = r.Float32(); err != nil {
		return se, err
	}
	if mask&bitColor != 0 {
		v, err := r.Uint32()
		if err != nil {
			return se, err
		}
		se.Color = &v
	}
	if mask&bitDuration != 0 {
		v, err := r.Float32()
		if err != nil {
			return se, err
		}
		se.Duration = &v
	}
	if mask&bitUnknown != 0 {
		v, err := r.Byte()
		if err != nil {
			return se, err
		}
		se.Unknown = &v
	}
	return se, nil
}

// EncodeShowEffect serializes se into a fresh body (id byte excluded; the
// caller prefixes it), used both to re-emit edited ShowEffects and to
// synthesize new ones for /hi.
func EncodeShowEffect(se ShowEffect) []byte {
	w := codec.Acquire()
	defer codec.Release(w)

	var mask byte
	if se.Target != nil {
		mask |= bitTarget
	}
	// pos1/pos2 bits are always set on the wire per the original encoder,
	// which always writes both positions regardless of whether they carry
	// meaningful data.
	mask |= bitPos1X | bitPos1Y | bitPos2X | bitPos2Y
	if se.Color != nil {
		mask |= bitColor
	}
	if se.Duration != nil {
		mask |= bitDuration
	}
	if se.Unknown != nil {
		mask |= bitUnknown
	}

	w.Byte(mask)
	w.Byte(se.EffectType)
	if se.Target != nil {
		w.CompressedInt(*se.Target)
	}
	w.Float32(se.Pos1.X)
	w.Float32(se.Pos1.Y)
	w.Float32(se.Pos2.X)
	w.Float32(se.Pos2.Y)
	if se.Color != nil {
		w.Uint32(*se.Color)
	}
	if se.Duration != nil {
		w.Float32(*se.Duration)
	}
	if se.Unknown != nil {
		w.Byte(*se.Unknown)
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
