package rhserial

import (
	"bytes"

	"github.com/sigurn/crc16"
)

// ChecksumSize is the number of checksum bytes trailing a frame.
const ChecksumSize = 2

var crcTable = crc16.MakeTable(crc16.CRC16_MCRF4XX)

// Checksum computes the CRC-16/MCRF4XX of data, big-endian.
func Checksum(data []byte) []byte {
	return checksumBytes(sum16(data))
}

// PassesChecksum reports whether checksum matches data.
func PassesChecksum(data, checksum []byte) bool {
	return bytes.Equal(Checksum(data), checksum)
}

func sum16(parts ...[]byte) uint16 {
	crc := crc16.Init(crcTable)
	for _, p := range parts {
		crc = crc16.Update(crc, p, crcTable)
	}
	return crc16.Complete(crc, crcTable)
}

func checksumBytes(crc uint16) []byte {
	return []byte{byte(crc >> 8), byte(crc)}
}
