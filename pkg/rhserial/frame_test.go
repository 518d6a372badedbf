package rhserial

import (
	"bytes"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRSSI(t *testing.T) {
	testCases := []struct {
		raw    byte
		expect int8
	}{
		{200, -56},
		{100, 100},
		{0, 0},
		{127, 127},
		{128, -128},
		{255, -1},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expect, NormalizeRSSI(tc.raw), "raw %d", tc.raw)
	}
}

func TestPack(t *testing.T) {
	frame := Pack([]byte{DLE}, 0x01, 0x02, DLE, 0x00)
	expectBody := []byte{0x01, 0x02, DLE, DLE, 0x00, DLE, DLE}
	require.Equal(t, []byte{DLE, STX}, frame[:2])
	require.Equal(t, expectBody, frame[2:9])
	require.Equal(t, []byte{DLE, ETX}, frame[9:11])
	require.Equal(t, Checksum([]byte{0x01, 0x02, DLE, 0x00, DLE, DLE, ETX}), frame[11:])
	require.Len(t, frame, 13)
}

func TestPackChecksumCoversTail(t *testing.T) {
	payload := []byte("hello")
	frame := Pack(payload, Broadcast, 0x15, 7, 0)
	body := append([]byte{Broadcast, 0x15, 7, 0}, payload...)
	require.Equal(t, Checksum(append(body, DLE, ETX)), frame[len(frame)-2:])
	require.NotEqual(t, Checksum(body), frame[len(frame)-2:])
}

func TestPackNoUnescapedMarkers(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		payload := make([]byte, rnd.Intn(64))
		rnd.Read(payload)
		frame := Pack(payload, byte(rnd.Intn(256)), byte(rnd.Intn(256)), byte(rnd.Intn(256)), byte(rnd.Intn(256)))
		stuffed := frame[2 : len(frame)-4]
		for j := 0; j < len(stuffed); j++ {
			if stuffed[j] == DLE {
				require.Less(t, j+1, len(stuffed), "dangling escape")
				require.Equal(t, DLE, stuffed[j+1], "unescaped DLE at %d", j)
				j++
			}
		}
	}
}

func TestUnpack(t *testing.T) {
	msg, err := Unpack([]byte{0xff, 0x15, 0x03, 200, 'h', 'i'})
	require.NoError(t, err)
	require.Equal(t, Message{To: 0xff, From: 0x15, ID: 3, RSSI: -56, Payload: []byte("hi")}, msg)

	msg, err = Unpack([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Empty(t, msg.Payload)

	_, err = Unpack([]byte{1, 2, 3})
	require.Equal(t, ErrShortMessage, err)
}

func TestDecodeFrame(t *testing.T) {
	payload := []byte{0x00, DLE, DLE, 0x03, 0xff}
	frame := Pack(payload, 0x15, 0x20, DLE, 150)
	msg, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, Message{To: 0x15, From: 0x20, ID: DLE, RSSI: -106, Payload: payload}, msg)

	corrupt := append([]byte(nil), frame...)
	corrupt[len(corrupt)-1] ^= 0xff
	_, err = DecodeFrame(corrupt)
	require.Equal(t, ErrChecksumMismatch, err)

	_, err = DecodeFrame(frame[1:])
	require.Equal(t, ErrMalformedFrame, err)

	_, err = DecodeFrame([]byte{DLE, STX, 1, DLE, 2, DLE, ETX, 0, 0})
	require.Equal(t, ErrMalformedFrame, err)

	_, err = DecodeFrame(nil)
	require.Equal(t, ErrMalformedFrame, err)
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		payload := make([]byte, rnd.Intn(1024))
		rnd.Read(payload)
		if i%5 == 0 {
			payload = bytes.Repeat([]byte{DLE}, len(payload))
		}
		to, from, id, flag := byte(rnd.Intn(256)), byte(rnd.Intn(256)), byte(rnd.Intn(256)), byte(rnd.Intn(256))

		var delivered [][]byte
		rx := NewRXHandler(HandlerFunc(func(body []byte) {
			delivered = append(delivered, body)
		}))
		for _, b := range Pack(payload, to, from, id, flag) {
			rx.Update(b)
		}
		require.Len(t, delivered, 1)
		require.Equal(t, StateIdle, rx.State())

		msg, err := Unpack(delivered[0])
		require.NoError(t, err)
		require.Equal(t, to, msg.To)
		require.Equal(t, from, msg.From)
		require.Equal(t, id, msg.ID)
		require.Equal(t, NormalizeRSSI(flag), msg.RSSI)
		require.Equal(t, payload, msg.Payload)
	}
}

func TestRoundTripLongPayload(t *testing.T) {
	for _, size := range []int{251, 252, 300, 1024} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			payload := bytes.Repeat([]byte{'a', DLE}, size/2+1)[:size]
			var delivered [][]byte
			rx := NewRXHandler(HandlerFunc(func(body []byte) {
				delivered = append(delivered, body)
			}))
			for _, b := range Pack(payload, Broadcast, 0x15, 7, 0) {
				rx.Update(b)
			}
			require.Len(t, delivered, 1)
			require.Zero(t, rx.Stats().Overflows)
			msg, err := Unpack(delivered[0])
			require.NoError(t, err)
			require.Equal(t, payload, msg.Payload)
		})
	}
}
