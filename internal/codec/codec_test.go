package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	w := Acquire()
	defer Release(w)

	w.Byte(0xAB)
	w.Int8(-5)
	w.Uint16(0xBEEF)
	w.Int16(-1234)
	w.Uint32(0xDEADBEEF)
	w.Int32(-987654)
	w.Int64(-1)
	w.Float32(3.5)
	w.String("rotmguard")

	r := NewReader(w.Bytes())

	b, err := r.Byte()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), b)

	i8, err := r.Int8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)

	u16, err := r.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	i16, err := r.Int16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1234), i16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-987654), i32)

	i64, err := r.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i64)

	f32, err := r.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "rotmguard", s)

	assert.Zero(t, r.Remaining())
}

func TestReaderRejectsTruncatedInput(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.Uint32()
	assert.Error(t, err)
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	w := Acquire()
	defer Release(w)
	w.Uint16(2)
	w.Raw([]byte{0xff, 0xfe}) // not valid utf-8

	r := NewReader(w.Bytes())
	_, err := r.String()
	assert.Error(t, err)
}

func TestCompressedIntRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -63, 64, -64, 8191, -8191, 1 << 20, -(1 << 20)}
	for _, v := range values {
		w := Acquire()
		w.CompressedInt(v)
		r := NewReader(w.Bytes())
		got, err := r.CompressedInt()
		Release(w)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, got, "round trip of %d", v)
	}
}

func TestCompressedIntRejectsRunawayContinuation(t *testing.T) {
	// 8 continuation bytes in a row exceeds the 7-continuation-byte cap.
	data := make([]byte, 9)
	data[0] = 0x80
	for i := 1; i < 8; i++ {
		data[i] = 0x80
	}
	data[8] = 0x01

	r := NewReader(data)
	_, err := r.CompressedInt()
	assert.Error(t, err)
}

func TestBytesCopyIsIndependentOfSource(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src)
	cp, err := r.BytesCopy(4)
	require.NoError(t, err)
	src[0] = 0xff
	assert.Equal(t, byte(1), cp[0], "BytesCopy must not alias the source slice")
}
