package packets

import "github.com/udisondev/rotmguard-proxy/internal/codec"

// EnemyShoot is S→C id 35: the server announcing one or more bullets from
// owner, each carrying the same damage and bullet type.
type EnemyShoot struct {
	BulletID   uint16
	OwnerID    uint32
	BulletType byte
	Damage     int16
	NumShots   byte
}

func DecodeEnemyShoot(body []byte) (EnemyShoot, error) {
	r := codec.NewReader(body)
	var e EnemyShoot
	var err error
	var bid int16
	if bid, err = r.Int16(); err != nil {
		return e, err
	}
	e.BulletID = uint16(bid)
	var owner int32
	if owner, err = r.Int32(); err != nil {
		return e, err
	}
	e.OwnerID = uint32(owner)
	if e.BulletType, err = r.Byte(); err != nil {
		return e, err
	}
	var dmg int16
	if dmg, err = r.Int16(); err != nil {
		return e, err
	}
	e.Damage = dmg
	if r.Remaining() > 0 {
		e.NumShots, _ = r.Byte()
	} else {
		e.NumShots = 1
	}
	return e, nil
}

// PlayerShoot is C→S id 30: the client announcing its own shot. The
// proxy needs the bullet id/owner pair to register the cache entry and
// the own-shot damage roll.
type PlayerShoot struct {
	BulletID   uint16
	OwnerID    uint32 // the shooting player's own object id
	ObjectType uint16
}

func DecodePlayerShoot(body []byte) (PlayerShoot, error) {
	r := codec.NewReader(body)
	var p PlayerShoot
	var err error
	tickID, err := r.Int32()
	_ = tickID
	if err != nil {
		return p, err
	}
	var bid int16
	if bid, err = r.Int16(); err != nil {
		return p, err
	}
	p.BulletID = uint16(bid)
	var owner int32
	if owner, err = r.Int32(); err != nil {
		return p, err
	}
	p.OwnerID = uint32(owner)
	return p, nil
}

// PlayerHit is C→S id 90: the client reporting it was hit by bulletID
// from ownerID.
type PlayerHit struct {
	BulletID uint16
	OwnerID  uint32
}

func DecodePlayerHit(body []byte) (PlayerHit, error) {
	r := codec.NewReader(body)
	var p PlayerHit
	var err error
	var bid int16
	if bid, err = r.Int16(); err != nil {
		return p, err
	}
	p.BulletID = uint16(bid)
	var owner int32
	if owner, err = r.Int32(); err != nil {
		return p, err
	}
	p.OwnerID = uint32(owner)
	return p, nil
}

// Aoe is S→C id 64: an area effect centered at (X,Y).
type Aoe struct {
	X, Y          float32
	Radius        float32
	Damage        int16
	ArmorPiercing bool
	ConditionBit  int32 // -1 if none
	DurationMs    int32
}

func DecodeAoe(body []byte) (Aoe, error) {
	r := codec.NewReader(body)
	var a Aoe
	var err error
	if a.X, err = r.Float32(); err != nil {
		return a, err
	}
	if a.Y, err = r.Float32(); err != nil {
		return a, err
	}
	if a.Radius, err = r.Float32(); err != nil {
		return a, err
	}
	if a.Damage, err = r.Int16(); err != nil {
		return a, err
	}
	ap, err := r.Byte()
	if err != nil {
		return a, err
	}
	a.ArmorPiercing = ap != 0
	if a.ConditionBit, err = r.Int32(); err != nil {
		return a, err
	}
	if a.DurationMs, err = r.Int32(); err != nil {
		return a, err
	}
	return a, nil
}

// AoeAck is C→S id 89: the client's implicit admission of being caught in
// the most recently announced AOE.
type AoeAck struct {
	X, Y float32
}

func DecodeAoeAck(body []byte) (AoeAck, error) {
	r := codec.NewReader(body)
	var a AoeAck
	var err error
	if _, err = r.Int64(); err != nil { // timestamp, unused by the proxy
		return a, err
	}
	if a.X, err = r.Float32(); err != nil {
		return a, err
	}
	a.Y, err = r.Float32()
	return a, err
}

// GroundDamage is C→S id 103: the client reporting hazard-tile damage.
type GroundDamage struct {
	X, Y int16
}

func DecodeGroundDamage(body []byte) (GroundDamage, error) {
	r := codec.NewReader(body)
	var g GroundDamage
	var err error
	if g.X, err = r.Int16(); err != nil {
		return g, err
	}
	g.Y, err = r.Int16()
	return g, err
}

// Move is C→S id 62: the client's tick acknowledgement.
type Move struct {
	TickID uint32
	X, Y   float32
}

func DecodeMove(body []byte) (Move, error) {
	r := codec.NewReader(body)
	var m Move
	var err error
	tid, err := r.Int32()
	if err != nil {
		return m, err
	}
	m.TickID = uint32(tid)
	if _, err = r.Int64(); err != nil { // client timestamp, unused
		return m, err
	}
	if m.X, err = r.Float32(); err != nil {
		return m, err
	}
	m.Y, err = r.Float32()
	return m, err
}

// EncodeEscape serializes the escape packet's body, which is empty: on
// the wire the packet is its id byte (105) alone.
func EncodeEscape() []byte {
	return nil
}

// Reconnect is the S→C id-45 packet injected by /con.
type Reconnect struct {
	Host    string
	Port    uint16
	GameID  uint32
	KeyTime uint32
	Key     []byte
}

func EncodeReconnect(r Reconnect) []byte {
	w := codec.Acquire()
	defer codec.Release(w)
	w.String(r.Host)
	w.Uint32(uint32(r.Port))
	w.Uint32(r.GameID)
	w.Uint32(r.KeyTime)
	w.Uint16(uint16(len(r.Key)))
	w.Raw(r.Key)
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
