package packets

import (
	"fmt"

	"github.com/udisondev/rotmguard-proxy/internal/codec"
)

// TileData is one fixed 6-byte tile record: i16 x, i16 y, u16 type.
type TileData struct {
	X, Y     int16
	TileType uint16
}

func decodeTile(r *codec.Reader) (TileData, error) {
	var t TileData
	var err error
	if t.X, err = r.Int16(); err != nil {
		return t, err
	}
	if t.Y, err = r.Int16(); err != nil {
		return t, err
	}
	tt, err := r.Uint16()
	t.TileType = tt
	return t, err
}

func encodeTile(w *codec.Writer, t TileData) {
	w.Int16(t.X)
	w.Int16(t.Y)
	w.Uint16(t.TileType)
}

// NewObjectEntry pairs a catalog type id with its initial status, per
// Update.new_objects[i].
type NewObjectEntry struct {
	TypeID uint16
	Status ObjectStatusData
}

// Update is S→C id 42: tile rewrites, new objects, and removals for one
// tick's worth of the player's surrounding area.
type Update struct {
	Tiles      []TileData
	NewObjects []NewObjectEntry
	ToRemove   []int64
}

func DecodeUpdate(body []byte) (Update, error) {
	r := codec.NewReader(body)
	var u Update

	n, err := r.CompressedInt()
	if err != nil {
		return u, err
	}
	if n < 0 || n > maxListLen {
		return u, fmt.Errorf("packets: update tile count %d out of range", n)
	}
	u.Tiles = make([]TileData, n)
	for i := range u.Tiles {
		if u.Tiles[i], err = decodeTile(r); err != nil {
			return u, err
		}
	}

	n, err = r.CompressedInt()
	if err != nil {
		return u, err
	}
	if n < 0 || n > maxListLen {
		return u, fmt.Errorf("packets: update new-object count %d out of range", n)
	}
	u.NewObjects = make([]NewObjectEntry, n)
	for i := range u.NewObjects {
		tid, err := r.Uint16()
		if err != nil {
			return u, err
		}
		status, err := DecodeObjectStatusData(r)
		if err != nil {
			return u, err
		}
		u.NewObjects[i] = NewObjectEntry{TypeID: tid, Status: status}
	}

	n, err = r.CompressedInt()
	if err != nil {
		return u, err
	}
	if n < 0 || n > maxListLen {
		return u, fmt.Errorf("packets: update to-remove count %d out of range", n)
	}
	u.ToRemove = make([]int64, n)
	for i := range u.ToRemove {
		if u.ToRemove[i], err = r.CompressedInt(); err != nil {
			return u, err
		}
	}

	return u, nil
}

// Encode re-serializes u into a fresh body. The router always takes this
// path for an edited Update rather than patching in place, because tile
// count growth (antipush restoration records) can change the leading
// varint width.
func Encode(u Update) []byte {
	w := codec.Acquire()
	defer codec.Release(w)

	w.CompressedInt(int64(len(u.Tiles)))
	for _, t := range u.Tiles {
		encodeTile(w, t)
	}

	w.CompressedInt(int64(len(u.NewObjects)))
	for _, o := range u.NewObjects {
		w.Uint16(o.TypeID)
		EncodeObjectStatusData(w, o.Status)
	}

	w.CompressedInt(int64(len(u.ToRemove)))
	for _, id := range u.ToRemove {
		w.CompressedInt(id)
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
