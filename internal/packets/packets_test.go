package packets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rotmguard-proxy/internal/codec"
	"github.com/udisondev/rotmguard-proxy/internal/world"
)

func TestNewTickRoundTrip(t *testing.T) {
	nt := NewTick{
		TickID:     7,
		DurationMs: 100,
		Statuses: []ObjectStatusData{
			{ObjectID: 1, X: 1.5, Y: -2.5, Stats: []Stat{
				{Type: world.StatHP, Value: 42},
				{Type: world.StatType(6), Str: "a guild name"}, // string stat
			}},
		},
	}

	body := EncodeNewTick(nt)
	got, err := DecodeNewTick(body)
	require.NoError(t, err)
	assert.Equal(t, nt, got)
}

func TestNewTickFindSelfStatus(t *testing.T) {
	nt := NewTick{Statuses: []ObjectStatusData{{ObjectID: 5}, {ObjectID: 9}}}
	s, ok := nt.FindSelfStatus(9)
	require.True(t, ok)
	assert.Equal(t, uint32(9), s.ObjectID)

	_, ok = nt.FindSelfStatus(123)
	assert.False(t, ok)
}

func TestUpdateRoundTrip(t *testing.T) {
	u := Update{
		Tiles: []TileData{{X: 1, Y: 2, TileType: 3}, {X: -1, Y: -2, TileType: 4}},
		NewObjects: []NewObjectEntry{
			{TypeID: 100, Status: ObjectStatusData{ObjectID: 11, Stats: []Stat{{Type: world.StatDef, Value: 5}}}},
		},
		ToRemove: []int64{1, 2, 3},
	}

	body := Encode(u)
	got, err := DecodeUpdate(body)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUpdateRoundTripWithGrownTileList(t *testing.T) {
	// Antipush restoration appends tiles after decode, growing the leading
	// varint's width; Encode must still reproduce a decodable body.
	u := Update{}
	for i := 0; i < 200; i++ {
		u.Tiles = append(u.Tiles, TileData{X: int16(i), Y: int16(i), TileType: uint16(i)})
	}
	body := Encode(u)
	got, err := DecodeUpdate(body)
	require.NoError(t, err)
	assert.Len(t, got.Tiles, 200)
}

func TestDecodeStatRejectsTruncatedSecondary(t *testing.T) {
	w := codec.Acquire()
	defer codec.Release(w)
	w.Byte(byte(world.StatHP))
	w.CompressedInt(1)
	// secondary field omitted entirely

	r := codec.NewReader(w.Bytes())
	_, err := DecodeStat(r)
	assert.Error(t, err)
}

func TestObjectStatusDataConditionLookup(t *testing.T) {
	o := ObjectStatusData{Stats: []Stat{
		{Type: world.StatHP, Value: 10},
		{Type: world.StatCondition, Value: 7},
	}}
	bits, idx, ok := o.Condition()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, world.ConditionBits(7), bits)
}

func TestShowEffectRoundTripWithOptionalFields(t *testing.T) {
	target := int64(42)
	color := uint32(0xff00ff)
	duration := float32(2.5)
	se := ShowEffect{
		EffectType: 1,
		Target:     &target,
		Pos1:       Vec2{X: 1, Y: 2},
		Pos2:       Vec2{X: 3, Y: 4},
		Color:      &color,
		Duration:   &duration,
	}

	body := EncodeShowEffect(se)
	got, err := DecodeShowEffect(body)
	require.NoError(t, err)
	require.NotNil(t, got.Target)
	assert.Equal(t, target, *got.Target)
	require.NotNil(t, got.Color)
	assert.Equal(t, color, *got.Color)
	require.NotNil(t, got.Duration)
	assert.Equal(t, duration, *got.Duration)
	assert.Nil(t, got.Unknown)
	assert.Equal(t, se.Pos1, got.Pos1)
}

func TestShowEffectRoundTripWithNoOptionalFields(t *testing.T) {
	se := ShowEffect{EffectType: 3}
	body := EncodeShowEffect(se)
	got, err := DecodeShowEffect(body)
	require.NoError(t, err)
	assert.Nil(t, got.Target)
	assert.Nil(t, got.Color)
	assert.Nil(t, got.Duration)
	assert.Nil(t, got.Unknown)
}

func TestNotificationRoundTrip(t *testing.T) {
	n := Notification{Text: "you died", Color: 0xff0000, TargetID: -1}
	body := EncodeNotification(n)
	got, err := DecodeNotification(body)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestReconnectEncodesFields(t *testing.T) {
	body := EncodeReconnect(Reconnect{Host: "1.2.3.4", Port: 2050, GameID: 0xfffffffe, KeyTime: 0xffffffff})
	r := codec.NewReader(body)
	host, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", host)
	port, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(2050), port)
}

func TestDecodePlayerTextExtractsCommand(t *testing.T) {
	w := codec.Acquire()
	defer codec.Release(w)
	w.String("/hi")
	pt, err := DecodePlayerText(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "/hi", pt.Text)
}

func TestDecodeAoeAndAoeAck(t *testing.T) {
	w := codec.Acquire()
	w.Float32(10)
	w.Float32(20)
	w.Float32(5)
	w.Int16(30)
	w.Byte(1) // armor piercing
	w.Int32(2)
	w.Int32(1500)
	ao, err := DecodeAoe(w.Bytes())
	codec.Release(w)
	require.NoError(t, err)
	assert.True(t, ao.ArmorPiercing)
	assert.Equal(t, int32(2), ao.ConditionBit)

	w2 := codec.Acquire()
	w2.Int64(0)
	w2.Float32(11)
	w2.Float32(21)
	ack, err := DecodeAoeAck(w2.Bytes())
	codec.Release(w2)
	require.NoError(t, err)
	assert.Equal(t, float32(11), ack.X)
	assert.Equal(t, float32(21), ack.Y)
}

func TestDecodeEnemyShootDefaultsNumShotsToOne(t *testing.T) {
	w := codec.Acquire()
	w.Int16(5)
	w.Int32(10)
	w.Byte(2)
	w.Int16(30)
	// no trailing numshots byte
	es, err := DecodeEnemyShoot(w.Bytes())
	codec.Release(w)
	require.NoError(t, err)
	assert.Equal(t, byte(1), es.NumShots)
}

func TestDecodeCreateSuccess(t *testing.T) {
	w := codec.Acquire()
	w.Int32(99)
	cs, err := DecodeCreateSuccess(w.Bytes())
	codec.Release(w)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), cs.ObjectID)
}
