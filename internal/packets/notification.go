package packets

import "github.com/udisondev/rotmguard-proxy/internal/codec"

// Notification is the S→C id-67 packet used both for server messages and
// for injected command replies. Target -1 means "not object-targeted".
type Notification struct {
	Text     string
	Color    uint32
	TargetID int64
}

func DecodeNotification(body []byte) (Notification, error) {
	r := codec.NewReader(body)
	var n Notification
	var err error
	if n.Text, err = r.String(); err != nil {
		return n, err
	}
	if n.Color, err = r.Uint32(); err != nil {
		return n, err
	}
	n.TargetID, err = r.CompressedInt()
	return n, err
}

func EncodeNotification(n Notification) []byte {
	w := codec.Acquire()
	defer codec.Release(w)
	w.String(n.Text)
	w.Uint32(n.Color)
	w.CompressedInt(n.TargetID)
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
