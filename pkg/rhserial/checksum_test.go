package rhserial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		expect []byte
	}{
		{"empty", nil, []byte{0xff, 0xff}},
		{"check string", []byte("123456789"), []byte{0x6f, 0x91}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Checksum(tc.data))
			require.True(t, PassesChecksum(tc.data, tc.expect))
		})
	}
}

func TestPassesChecksum(t *testing.T) {
	data := []byte("T|R2D1    |00001")
	sum := Checksum(data)
	require.True(t, PassesChecksum(data, sum))
	require.False(t, PassesChecksum(data, []byte{sum[0], sum[1] ^ 1}))
	require.False(t, PassesChecksum(data, sum[:1]))
	require.False(t, PassesChecksum(data, nil))
}

func TestChecksumSingleBitSensitivity(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for n := 1; n <= 32; n++ {
		data := make([]byte, n)
		rnd.Read(data)
		sum := Checksum(data)
		for bit := 0; bit < n*8; bit++ {
			flipped := append([]byte(nil), data...)
			flipped[bit/8] ^= 1 << uint(bit%8)
			require.NotEqualf(t, sum, Checksum(flipped), "len %d bit %d", n, bit)
		}
	}
}
