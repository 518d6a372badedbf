package scheduler

import "github.com/tuppersat/r2d1.go/pkg/packet"

// Sender transmits encoded records, implemented by radio.TupperSatRadio.
type Sender interface {
	SendTelemetry(packet.Telemetry) (int, error)
	SendData([]byte) (int, error)
}

// Record is a record waiting for transmission.
// It is implemented only by *TelemetryRecord and *DataRecord.
type Record interface {
	Kind() Kind
	send(Sender) (int, error)
}

// TelemetryRecord holds one telemetry reading.
type TelemetryRecord struct {
	Telemetry packet.Telemetry
}

// Kind implements Record.
func (r *TelemetryRecord) Kind() Kind { return KindTelemetry }

func (r *TelemetryRecord) send(s Sender) (int, error) {
	return s.SendTelemetry(r.Telemetry)
}

// DataRecord holds an encoded data group payload.
type DataRecord struct {
	Data []byte
}

// Kind implements Record.
func (r *DataRecord) Kind() Kind { return KindData }

func (r *DataRecord) send(s Sender) (int, error) {
	return s.SendData(r.Data)
}
