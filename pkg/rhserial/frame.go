package rhserial

import "bytes"

// Control bytes.
const (
	DLE byte = 0x10 // data link escape
	STX byte = 0x02 // start of text
	ETX byte = 0x03 // end of text
)

// HeaderSize is the size of the to/from/id/flag header.
const HeaderSize = 4

// Broadcast is the destination address accepted by every node.
const Broadcast byte = 0xff

var (
	head = []byte{DLE, STX}
	tail = []byte{DLE, ETX}
)

// Message is a decoded frame.
type Message struct {
	To      byte
	From    byte
	ID      byte
	RSSI    int8
	Payload []byte
}

// NormalizeRSSI reinterprets the raw flag byte as a signed RSSI value.
func NormalizeRSSI(raw byte) int8 {
	return int8(raw)
}

// Pack assembles a complete frame including DLE stuffing and checksum.
func Pack(payload []byte, to, from, id, flag byte) []byte {
	body := make([]byte, 0, HeaderSize+len(payload))
	body = append(body, to, from, id, flag)
	body = append(body, payload...)

	crc := sum16(body, tail)

	frame := make([]byte, 0, len(head)+2*len(body)+len(tail)+ChecksumSize)
	frame = append(frame, head...)
	frame = appendStuffed(frame, body)
	frame = append(frame, tail...)
	return append(frame, checksumBytes(crc)...)
}

// Unpack splits a de-stuffed body (header and payload, without head, tail
// and checksum) into a Message.
func Unpack(body []byte) (Message, error) {
	if len(body) < HeaderSize {
		return Message{}, ErrShortMessage
	}
	payload := make([]byte, len(body)-HeaderSize)
	copy(payload, body[HeaderSize:])
	return Message{
		To:      body[0],
		From:    body[1],
		ID:      body[2],
		RSSI:    NormalizeRSSI(body[3]),
		Payload: payload,
	}, nil
}

// DecodeFrame validates and decodes one complete frame as produced by Pack.
func DecodeFrame(frame []byte) (Message, error) {
	if len(frame) < len(head)+len(tail)+ChecksumSize || !bytes.HasPrefix(frame, head) {
		return Message{}, ErrMalformedFrame
	}
	end := len(frame) - ChecksumSize
	if !bytes.Equal(frame[end-len(tail):end], tail) {
		return Message{}, ErrMalformedFrame
	}
	body, ok := unstuff(frame[len(head) : end-len(tail)])
	if !ok {
		return Message{}, ErrMalformedFrame
	}
	if !bytes.Equal(checksumBytes(sum16(body, tail)), frame[end:]) {
		return Message{}, ErrChecksumMismatch
	}
	return Unpack(body)
}

func appendStuffed(dst, src []byte) []byte {
	for _, b := range src {
		if b == DLE {
			dst = append(dst, DLE)
		}
		dst = append(dst, b)
	}
	return dst
}

func unstuff(src []byte) ([]byte, bool) {
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == DLE {
			if i+1 >= len(src) || src[i+1] != DLE {
				return nil, false
			}
			i++
		}
		dst = append(dst, src[i])
	}
	return dst, true
}
