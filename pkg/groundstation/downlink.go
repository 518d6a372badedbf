// Package groundstation decodes frames received from the flight radio and
// publishes them to an MQTT broker.
package groundstation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tuppersat/r2d1.go/pkg/packet"
	"github.com/tuppersat/r2d1.go/pkg/rhserial"
)

// Kinds of downlink payloads.
const (
	KindTelemetry = "telemetry"
	KindData      = "data"
	KindText      = "text"
	KindBinary    = "binary"
)

// Downlink is a decoded radio message.
type Downlink struct {
	Received time.Time
	Message  rhserial.Message
	Kind     string
	Callsign string
	// Fields of a telemetry record.
	Fields packet.TelemetryFields
	// Data of a data record, or the payload of other kinds.
	Data []byte
}

// Decode classifies the payload of msg.
func Decode(received time.Time, msg rhserial.Message) *Downlink {
	d := &Downlink{Received: received, Message: msg}
	if fields, err := packet.ParseTelemetry(msg.Payload); err == nil {
		d.Kind = KindTelemetry
		d.Fields = fields
		d.Callsign = fields[packet.FieldCallsign]
		return d
	}
	if callsign, data, err := packet.ParseData(msg.Payload); err == nil {
		d.Kind = KindData
		d.Callsign = callsign
		d.Data = data
		return d
	}
	d.Data = msg.Payload
	if isText(msg.Payload) {
		d.Kind = KindText
	} else {
		d.Kind = KindBinary
	}
	return d
}

func isText(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	return strings.IndexFunc(string(b), func(r rune) bool {
		return !unicode.IsPrint(r) && !unicode.IsSpace(r)
	}) < 0
}

// Topic is the relay topic of the downlink.
func (d *Downlink) Topic() string {
	callsign := d.Callsign
	if callsign == "" {
		callsign = fmt.Sprintf("0x%02x", d.Message.From)
	}
	return "downlink/" + callsign + "/" + d.Kind
}

// Struct converts the downlink into a protobuf Struct.
func (d *Downlink) Struct() (*structpb.Struct, error) {
	m := map[string]interface{}{
		"received": d.Received.UTC().Format(time.RFC3339Nano),
		"to":       int(d.Message.To),
		"from":     int(d.Message.From),
		"id":       int(d.Message.ID),
		"rssi":     int(d.Message.RSSI),
		"kind":     d.Kind,
	}
	if d.Callsign != "" {
		m["callsign"] = d.Callsign
	}
	if d.Fields != nil {
		fields := make(map[string]interface{}, len(d.Fields))
		for k, v := range d.Fields {
			fields[k] = v
		}
		m["fields"] = fields
	}
	switch d.Kind {
	case KindText:
		m["text"] = string(d.Data)
	case KindData, KindBinary:
		m["data"] = d.Data
	}
	return structpb.NewStruct(m)
}

// Marshal encodes the downlink in protobuf wire format.
func (d *Downlink) Marshal() ([]byte, error) {
	s, err := d.Struct()
	if err != nil {
		return nil, fmt.Errorf("convert downlink: %w", err)
	}
	return proto.Marshal(s)
}

// ErrEmptyPayload indicates a relayed payload carries no downlink.
var ErrEmptyPayload = errors.New("empty payload")

// Unmarshal decodes a relayed downlink.
func Unmarshal(payload []byte) (*structpb.Struct, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
