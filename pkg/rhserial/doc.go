// Package rhserial implements the RadioHead RH_Serial link protocol used
// between the payload and the T3 radio.
package rhserial

// A frame on the wire is laid out as
//
//	DLE STX | to from id flag payload... | DLE ETX | CRC-hi CRC-lo
//
// Any DLE inside the header or payload is doubled. The checksum is a
// CRC-16/MCRF4XX over the unstuffed header, payload and the DLE ETX tail;
// the DLE STX head and the checksum itself are not covered.
//
// The radio firmware replaces the flag byte with a signal strength
// indication on received frames, so Unpack reports it as a signed RSSI.
//
// Producer: flight computer (transmit only)
// Consumer: ground station
