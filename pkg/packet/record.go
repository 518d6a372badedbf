package packet

import (
	"bytes"
	"errors"
	"strings"
)

// Field names shared by sensor readings and telemetry records.
const (
	FieldCallsign  = "callsign"
	FieldIndex     = "index"
	FieldHHMMSS    = "hhmmss"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldHDOP      = "hdop"
	FieldAltitude  = "altitude"
	FieldTInternal = "t_internal"
	FieldTExternal = "t_external"
	FieldPressure  = "pressure"
)

// Record markers and separator.
const (
	TelemetryMarker byte = 'T'
	DataMarker      byte = 'D'
	Separator       byte = '|'
)

// Telemetry is a TupperSat telemetry record.
type Telemetry struct {
	Callsign  string
	Index     uint64
	HHMMSS    Value
	Latitude  Value
	Longitude Value
	HDOP      Value
	Altitude  Value
	TInternal Value
	TExternal Value
	Pressure  Value
}

type telemetryField struct {
	name  string
	width int
	spec  Spec
	clock bool
}

var telemetryLayout = []telemetryField{
	{name: FieldCallsign, width: 8, spec: Spec{Verb: VerbText, Left: true, Width: 8}},
	{name: FieldIndex, width: 5, spec: Spec{Verb: VerbInteger, ZeroPad: true, Width: 5}},
	{name: FieldHHMMSS, width: 6, clock: true},
	{name: FieldLatitude, width: 9, spec: Spec{Verb: VerbFloat, Sign: true, ZeroPad: true, Width: 9, Precision: 5}},
	{name: FieldLongitude, width: 10, spec: Spec{Verb: VerbFloat, Sign: true, ZeroPad: true, Width: 10, Precision: 5}},
	{name: FieldHDOP, width: 5, spec: Spec{Verb: VerbFloat, ZeroPad: true, Width: 5, Precision: 2}},
	{name: FieldAltitude, width: 8, spec: Spec{Verb: VerbFloat, ZeroPad: true, Width: 8, Precision: 2}},
	{name: FieldTInternal, width: 8, spec: Spec{Verb: VerbFloat, Sign: true, ZeroPad: true, Width: 8, Precision: 3}},
	{name: FieldTExternal, width: 8, spec: Spec{Verb: VerbFloat, Sign: true, ZeroPad: true, Width: 8, Precision: 3}},
	{name: FieldPressure, width: 9, spec: Spec{Verb: VerbFloat, ZeroPad: true, Width: 9, Precision: 4}},
}

// TelemetrySize is the length of every encoded telemetry record.
var TelemetrySize = func() int {
	n := 1 + len(telemetryLayout)
	for _, f := range telemetryLayout {
		n += f.width
	}
	return n
}()

// TelemetryFieldNames lists record fields in wire order.
func TelemetryFieldNames() []string {
	names := make([]string, len(telemetryLayout))
	for n, f := range telemetryLayout {
		names[n] = f.name
	}
	return names
}

// NewTelemetry takes measurement fields from a reading.
// Callsign and Index are left for the radio to assign.
func NewTelemetry(r Reading) Telemetry {
	return Telemetry{
		HHMMSS:    r.Get(FieldHHMMSS),
		Latitude:  r.Get(FieldLatitude),
		Longitude: r.Get(FieldLongitude),
		HDOP:      r.Get(FieldHDOP),
		Altitude:  r.Get(FieldAltitude),
		TInternal: r.Get(FieldTInternal),
		TExternal: r.Get(FieldTExternal),
		Pressure:  r.Get(FieldPressure),
	}
}

func (t *Telemetry) values() []Value {
	return []Value{
		Text(t.Callsign),
		Int(int64(t.Index)),
		t.HHMMSS,
		t.Latitude,
		t.Longitude,
		t.HDOP,
		t.Altitude,
		t.TInternal,
		t.TExternal,
		t.Pressure,
	}
}

// Bytes encodes the record as ASCII.
func (t *Telemetry) Bytes() ([]byte, error) {
	buf := make([]byte, 0, TelemetrySize)
	buf = append(buf, TelemetryMarker)
	for n, v := range t.values() {
		f := telemetryLayout[n]
		var s string
		var err error
		if f.clock {
			s, err = FormatClock(v, f.width)
		} else {
			s, err = FormatField(v, f.width, f.spec)
		}
		if err != nil {
			if fe, ok := err.(*FormatError); ok {
				fe.Field = f.name
			}
			return nil, err
		}
		buf = append(buf, Separator)
		buf = append(buf, s...)
	}
	return buf, nil
}

// ErrNotTelemetry indicates the record is not a well-formed telemetry record.
var ErrNotTelemetry = errors.New("not a telemetry record")

// TelemetryFields holds trimmed field text of a decoded record, blank
// fields are empty strings.
type TelemetryFields map[string]string

// ParseTelemetry splits a telemetry record on its fixed offsets.
func ParseTelemetry(record []byte) (TelemetryFields, error) {
	if len(record) != TelemetrySize || record[0] != TelemetryMarker {
		return nil, ErrNotTelemetry
	}
	fields := make(TelemetryFields, len(telemetryLayout))
	offset := 1
	for _, f := range telemetryLayout {
		if record[offset] != Separator {
			return nil, ErrNotTelemetry
		}
		offset++
		fields[f.name] = strings.TrimSpace(string(record[offset : offset+f.width]))
		offset += f.width
	}
	return fields, nil
}

// ErrNotData indicates the record is not a well-formed data record.
var ErrNotData = errors.New("not a data record")

// DataPacket assembles a data record carrying raw bytes.
func DataPacket(callsign string, data []byte) ([]byte, error) {
	cs, err := FormatField(Text(callsign), CallsignSize, telemetryLayout[0].spec)
	if err != nil {
		err.(*FormatError).Field = FieldCallsign
		return nil, err
	}
	buf := make([]byte, 0, 3+CallsignSize+len(data))
	buf = append(buf, DataMarker, Separator)
	buf = append(buf, cs...)
	buf = append(buf, Separator)
	return append(buf, data...), nil
}

// ParseData splits a data record into callsign and raw payload.
func ParseData(record []byte) (string, []byte, error) {
	const prefix = 2 + CallsignSize + 1
	if len(record) < prefix || record[0] != DataMarker || record[1] != Separator || record[prefix-1] != Separator {
		return "", nil, ErrNotData
	}
	return strings.TrimSpace(string(record[2 : 2+CallsignSize])), record[prefix:], nil
}

// Row separators of the data group payload.
const (
	rowSeparator   = ';'
	valueSeparator = ','
)

// EncodeRows renders buffered readings as a data group payload: the
// transmit count followed by one row per reading with values in fields order.
func EncodeRows(count uint64, fields []string, rows []Reading) []byte {
	var buf bytes.Buffer
	buf.WriteString(Int(int64(count)).String())
	for _, row := range rows {
		buf.WriteByte(rowSeparator)
		for n, name := range fields {
			if n > 0 {
				buf.WriteByte(valueSeparator)
			}
			buf.WriteString(row.Get(name).String())
		}
	}
	return buf.Bytes()
}
