package protocol

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeFrame builds one on-wire frame (length prefix + id + enciphered
// body) the way FramedWriter.append does, independent of the writer so the
// reader test doesn't depend on the writer's coalescing behaviour.
func encodeFrame(t *testing.T, key []byte, id uint8, body []byte) []byte {
	t.Helper()
	cipr := NewRC4Stream(key)
	ciphered := make([]byte, len(body))
	copy(ciphered, body)
	cipr.XOR(ciphered)

	total := uint32(headerLen + len(ciphered))
	frame := make([]byte, 0, total)
	frame = append(frame, byte(total>>24), byte(total>>16), byte(total>>8), byte(total))
	frame = append(frame, id)
	frame = append(frame, ciphered...)
	return frame
}

// byteAtATimeReader hands back one byte per Read call, the worst case for
// TryGetPacket's "more bytes needed" path.
type byteAtATimeReader struct {
	data []byte
	pos  int
}

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func drainPackets(t *testing.T, fr *FramedReader) [][]byte {
	t.Helper()
	var out [][]byte
	for {
		pkt, err := fr.TryGetPacket()
		require.NoError(t, err)
		if pkt == nil {
			if err := fr.ReadMore(); err != nil {
				if err == io.EOF {
					return out
				}
				require.NoError(t, err)
			}
			continue
		}
		out = append(out, pkt)
	}
}

func TestFramedReaderByteAtATimeMatchesWholeStream(t *testing.T) {
	key := ClientKey[:]
	frames := append(
		encodeFrame(t, key, 9, []byte("hello")),
		encodeFrame(t, key, 62, []byte{1, 2, 3, 4})...,
	)

	whole := NewFramedReader(bytes.NewReader(frames), key)
	wholePkts := drainPackets(t, whole)

	slow := NewFramedReader(&byteAtATimeReader{data: frames}, key)
	slowPkts := drainPackets(t, slow)

	require.Len(t, wholePkts, 2)
	require.Len(t, slowPkts, 2)
	assert.Equal(t, wholePkts, slowPkts)
	assert.Equal(t, uint8(9), wholePkts[0][0])
	assert.Equal(t, []byte("hello"), wholePkts[0][1:])
	assert.Equal(t, uint8(62), wholePkts[1][0])
	assert.Equal(t, []byte{1, 2, 3, 4}, wholePkts[1][1:])
}

func TestFramedReaderRejectsOversizedFrame(t *testing.T) {
	var hdr [4]byte
	length := uint32(maxPacketLen + 1)
	hdr[0], hdr[1], hdr[2], hdr[3] = byte(length>>24), byte(length>>16), byte(length>>8), byte(length)

	fr := NewFramedReader(bytes.NewReader(hdr[:]), ClientKey[:])
	require.NoError(t, fr.ReadMore())
	_, err := fr.TryGetPacket()
	assert.Error(t, err)
}

func TestFramedWriterCoalescesAndDeciphers(t *testing.T) {
	var buf bytes.Buffer
	w := NewFramedWriter(&buf, ClientKey[:], ClientToServer)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Send(ctx, 30, []byte{1, 2, 3}))  // low-priority, coalesced
	require.NoError(t, w.Send(ctx, 9, []byte("hi there"))) // forces a flush

	deadline := time.After(time.Second)
	for buf.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("writer never flushed")
		case <-time.After(time.Millisecond):
		}
	}
	w.Close()
	<-w.Done()

	fr := NewFramedReader(bytes.NewReader(buf.Bytes()), ClientKey[:])
	pkts := drainPackets(t, fr)
	require.Len(t, pkts, 2)
	assert.Equal(t, uint8(30), pkts[0][0])
	assert.Equal(t, []byte{1, 2, 3}, pkts[0][1:])
	assert.Equal(t, uint8(9), pkts[1][0])
	assert.Equal(t, []byte("hi there"), pkts[1][1:])
}
