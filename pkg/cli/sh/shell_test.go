package sh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuppersat/r2d1.go/pkg/radio"
	"github.com/tuppersat/r2d1.go/pkg/rhserial"
)

type bufferLink struct {
	bytes.Buffer
	closed bool
}

func (l *bufferLink) Close() error {
	l.closed = true
	return nil
}

func TestParseBytes(t *testing.T) {
	b, err := ParseBytes("0x1002ff")
	require.NoError(t, err)
	require.Equal(t, []byte{0x10, 0x02, 0xff}, b)

	b, err = ParseBytes("hex:10 03")
	require.NoError(t, err)
	require.Equal(t, []byte{0x10, 0x03}, b)

	b, err = ParseBytes("123456789")
	require.NoError(t, err)
	require.Equal(t, []byte("123456789"), b)

	_, err = ParseBytes("0xzz")
	require.Error(t, err)
}

func TestTransmitterKeepsFrameIDs(t *testing.T) {
	link := &bufferLink{}
	s := &Shell{Radio: radio.NewConfig(), link: link}

	for i, text := range []string{"one", "two"} {
		tx, err := s.Transmitter()
		require.NoError(t, err)
		n, err := tx.SendText(text)
		require.NoError(t, err)

		msg, err := rhserial.DecodeFrame(link.Next(n))
		require.NoError(t, err)
		require.Equal(t, byte(i), msg.ID)
		require.Equal(t, text, string(msg.Payload))
		require.Equal(t, byte(s.Radio.Address), msg.From)
	}

	require.NoError(t, s.Close())
	require.True(t, link.closed)
	require.Nil(t, s.tx)
}
