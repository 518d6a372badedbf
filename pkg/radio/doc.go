// Package radio drives the RH_Serial radio over a UART.
//
// Radio is transmit-only: it packs payloads into frames and writes them to
// the link, numbering frames with a single-byte id. TupperSatRadio adds the
// callsign and telemetry index of the TupperSat record format. Receiver
// decodes inbound frames for ground side tools.
package radio
