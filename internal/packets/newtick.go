package packets

import (
	"fmt"

	"github.com/udisondev/rotmguard-proxy/internal/codec"
)

// NewTick is S→C id 10: the tick boundary the client must acknowledge
// with a Move. Carries a batch of incremental per-object stat updates.
type NewTick struct {
	TickID     uint32
	DurationMs int32
	Statuses   []ObjectStatusData
}

func DecodeNewTick(body []byte) (NewTick, error) {
	r := codec.NewReader(body)
	var nt NewTick
	tid, err := r.Int32()
	if err != nil {
		return nt, err
	}
	nt.TickID = uint32(tid)
	if nt.DurationMs, err = r.Int32(); err != nil {
		return nt, err
	}
	n, err := r.CompressedInt()
	if err != nil {
		return nt, err
	}
	if n < 0 || n > maxListLen {
		return nt, fmt.Errorf("packets: newtick status count %d out of range", n)
	}
	nt.Statuses = make([]ObjectStatusData, n)
	for i := range nt.Statuses {
		if nt.Statuses[i], err = DecodeObjectStatusData(r); err != nil {
			return nt, err
		}
	}
	return nt, nil
}

// EncodeNewTick re-serializes nt, including when the status list's length
// changed (fakeslow synthetic status injection).
func EncodeNewTick(nt NewTick) []byte {
	w := codec.Acquire()
	defer codec.Release(w)
	w.Int32(int32(nt.TickID))
	w.Int32(nt.DurationMs)
	w.CompressedInt(int64(len(nt.Statuses)))
	for _, s := range nt.Statuses {
		EncodeObjectStatusData(w, s)
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}

// FindSelfStatus returns the status entry for selfID, if this NewTick
// carries one.
func (nt *NewTick) FindSelfStatus(selfID uint32) (*ObjectStatusData, bool) {
	for i := range nt.Statuses {
		if nt.Statuses[i].ObjectID == selfID {
			return &nt.Statuses[i], true
		}
	}
	return nil, false
}
