package packets

import "github.com/udisondev/rotmguard-proxy/internal/codec"

// CreateSuccess is S→C id 101: sent once at character entry, carrying the
// player's own object id. This is how the proxy learns world.State.SelfID.
type CreateSuccess struct {
	ObjectID uint32
}

func DecodeCreateSuccess(body []byte) (CreateSuccess, error) {
	r := codec.NewReader(body)
	id, err := r.Int32()
	return CreateSuccess{ObjectID: uint32(id)}, err
}
