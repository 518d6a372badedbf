// Package frame provides shell commands working on frames offline.
package frame

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/tuppersat/r2d1.go/pkg/cli/sh"
	"github.com/tuppersat/r2d1.go/pkg/groundstation"
	"github.com/tuppersat/r2d1.go/pkg/packet"
	"github.com/tuppersat/r2d1.go/pkg/rhserial"
)

// Checksum computes the checksum of the data argument, formatted as hex.
func Checksum(arg string) (string, error) {
	data, err := sh.ParseBytes(arg)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(rhserial.Checksum(data)), nil
}

// Pack packs a frame from TO FROM ID FLAG DATA arguments.
func Pack(args []string) ([]byte, error) {
	if len(args) < 5 {
		return nil, fmt.Errorf("TO FROM ID FLAG DATA required")
	}
	var header [rhserial.HeaderSize]byte
	names := [rhserial.HeaderSize]string{"TO", "FROM", "ID", "FLAG"}
	for n := range header {
		val, err := strconv.ParseUint(args[n], 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", names[n], err)
		}
		header[n] = byte(val)
	}
	data, err := sh.ParseBytes(strings.Join(args[4:], " "))
	if err != nil {
		return nil, err
	}
	return rhserial.Pack(data, header[0], header[1], header[2], header[3]), nil
}

// Decoded is the printable form of a decoded frame.
type Decoded struct {
	To       byte              `json:"to"`
	From     byte              `json:"from"`
	ID       byte              `json:"id"`
	RSSI     int8              `json:"rssi"`
	Kind     string            `json:"kind"`
	Callsign string            `json:"callsign,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Data     string            `json:"data,omitempty"`
}

// Decode decodes a complete frame.
func Decode(arg string) (*Decoded, error) {
	frame, err := sh.ParseBytes(arg)
	if err != nil {
		return nil, err
	}
	msg, err := rhserial.DecodeFrame(frame)
	if err != nil {
		return nil, err
	}
	return Describe(msg), nil
}

// Describe converts a message into its printable form.
func Describe(msg rhserial.Message) *Decoded {
	d := groundstation.Decode(time.Time{}, msg)
	out := &Decoded{
		To:       msg.To,
		From:     msg.From,
		ID:       msg.ID,
		RSSI:     msg.RSSI,
		Kind:     d.Kind,
		Callsign: d.Callsign,
		Fields:   d.Fields,
	}
	switch d.Kind {
	case groundstation.KindText:
		out.Data = string(d.Data)
	case groundstation.KindData, groundstation.KindBinary:
		out.Data = hex.EncodeToString(d.Data)
	}
	return out
}

// String renders the decoded frame as text.
func (d *Decoded) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "to=0x%02x from=0x%02x id=%d rssi=%d %s", d.To, d.From, d.ID, d.RSSI, d.Kind)
	if d.Callsign != "" {
		fmt.Fprintf(&b, " %s", d.Callsign)
	}
	if len(d.Fields) > 0 {
		for _, name := range packet.TelemetryFieldNames() {
			fmt.Fprintf(&b, "\n  %-10s %s", name, d.Fields[name])
		}
	}
	if d.Data != "" {
		fmt.Fprintf(&b, "\n  %s", d.Data)
	}
	return b.String()
}

// Parse parses a telemetry or data record.
func Parse(arg string) (map[string]string, error) {
	record, err := sh.ParseBytes(arg)
	if err != nil {
		return nil, err
	}
	if fields, err := packet.ParseTelemetry(record); err == nil {
		return fields, nil
	}
	callsign, data, err := packet.ParseData(record)
	if err != nil {
		return nil, fmt.Errorf("neither telemetry nor data record")
	}
	return map[string]string{
		packet.FieldCallsign: callsign,
		"data":               hex.EncodeToString(data),
	}, nil
}

func formatFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for n, name := range names {
		lines[n] = fmt.Sprintf("%-10s %s", name, fields[name])
	}
	return strings.Join(lines, "\n")
}

var (
	// ChecksumCmd computes a checksum.
	ChecksumCmd = ishell.Cmd{
		Name:    "crc",
		Aliases: []string{"checksum"},
		Help:    "DATA (text, or hex with 0x prefix)",
		Func: func(c *ishell.Context) {
			sum, err := Checksum(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, map[string]string{"crc": sum}, sum)
		},
	}

	// PackCmd packs a frame.
	PackCmd = ishell.Cmd{
		Name:    "pack",
		Aliases: []string{"p"},
		Help:    "TO FROM ID FLAG DATA",
		Func: func(c *ishell.Context) {
			frame, err := Pack(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			out := hex.EncodeToString(frame)
			sh.Output(c, map[string]string{"frame": out}, out)
		},
	}

	// DecodeCmd decodes a frame.
	DecodeCmd = ishell.Cmd{
		Name:    "decode",
		Aliases: []string{"d"},
		Help:    "FRAME (hex with 0x prefix)",
		Func: func(c *ishell.Context) {
			d, err := Decode(strings.Join(c.Args, ""))
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, d, d.String())
		},
	}

	// ParseCmd parses a record.
	ParseCmd = ishell.Cmd{
		Name: "parse",
		Help: "RECORD (hex with 0x prefix)",
		Func: func(c *ishell.Context) {
			fields, err := Parse(strings.Join(c.Args, ""))
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, fields, formatFields(fields))
		},
	}
)

func init() {
	sh.AddCmds(
		&ChecksumCmd,
		&PackCmd,
		&DecodeCmd,
		&ParseCmd,
	)
}
