package packets

import (
	"fmt"

	"github.com/udisondev/rotmguard-proxy/internal/codec"
	"github.com/udisondev/rotmguard-proxy/internal/world"
)

const maxListLen = 10000

// Stat is one (type, value) pair from an object status record. Value
// holds an integer unless Type is in the fixed string-stat-type list
// (world.IsStringStat), in which case Str holds the decoded string and
// Value is unused.
type Stat struct {
	Type      world.StatType
	Value     int64
	Str       string
	Secondary int64
}

func DecodeStat(r *codec.Reader) (Stat, error) {
	var s Stat
	t, err := r.Byte()
	if err != nil {
		return s, err
	}
	s.Type = world.StatType(t)
	if world.IsStringStat(s.Type) {
		if s.Str, err = r.String(); err != nil {
			return s, err
		}
	} else {
		if s.Value, err = r.CompressedInt(); err != nil {
			return s, err
		}
	}
	s.Secondary, err = r.CompressedInt()
	return s, err
}

func EncodeStat(w *codec.Writer, s Stat) {
	w.Byte(byte(s.Type))
	if world.IsStringStat(s.Type) {
		w.String(s.Str)
	} else {
		w.CompressedInt(s.Value)
	}
	w.CompressedInt(s.Secondary)
}

// ObjectStatusData is a per-object stat bundle, used both in
// Update.new_objects and NewTick.statuses.
type ObjectStatusData struct {
	ObjectID uint32
	X, Y     float32
	Stats    []Stat
}

func DecodeObjectStatusData(r *codec.Reader) (ObjectStatusData, error) {
	var o ObjectStatusData
	id, err := r.Int32()
	if err != nil {
		return o, err
	}
	o.ObjectID = uint32(id)
	if o.X, err = r.Float32(); err != nil {
		return o, err
	}
	if o.Y, err = r.Float32(); err != nil {
		return o, err
	}
	n, err := r.CompressedInt()
	if err != nil {
		return o, err
	}
	if n < 0 || n > maxListLen {
		return o, fmt.Errorf("packets: object status stat count %d out of range", n)
	}
	o.Stats = make([]Stat, n)
	for i := range o.Stats {
		if o.Stats[i], err = DecodeStat(r); err != nil {
			return o, err
		}
	}
	return o, nil
}

func EncodeObjectStatusData(w *codec.Writer, o ObjectStatusData) {
	w.Int32(int32(o.ObjectID))
	w.Float32(o.X)
	w.Float32(o.Y)
	w.CompressedInt(int64(len(o.Stats)))
	for _, s := range o.Stats {
		EncodeStat(w, s)
	}
}

// Condition returns the self-condition stat value, if present, as
// world.ConditionBits, and the index it was found at so callers can patch
// it in place.
func (o *ObjectStatusData) Condition() (bits world.ConditionBits, idx int, ok bool) {
	for i, s := range o.Stats {
		if s.Type == world.StatCondition {
			return world.ConditionBits(uint64(s.Value)), i, true
		}
	}
	return 0, -1, false
}
