package radio

import (
	"io"
	"sync"

	"github.com/tuppersat/r2d1.go/pkg/counter"
	"github.com/tuppersat/r2d1.go/pkg/packet"
)

// TelemetryIndexModulus keeps the index within the 5-digit field.
const TelemetryIndexModulus = 100000

// TupperSatRadio sends TupperSat telemetry and data records.
type TupperSatRadio struct {
	*Radio
	Callsign string

	lock  sync.Mutex
	index *counter.Counter
}

// NewTupperSatRadio creates a TupperSatRadio.
func NewTupperSatRadio(w io.Writer, address byte, callsign string) *TupperSatRadio {
	return &TupperSatRadio{
		Radio:    NewRadio(w, address),
		Callsign: packet.FormatCallsign(callsign),
		index:    counter.New(0, TelemetryIndexModulus),
	}
}

// SendTelemetry stamps callsign and the next index on t, encodes and
// broadcasts it. The index is consumed even if encoding fails.
func (r *TupperSatRadio) SendTelemetry(t packet.Telemetry) (int, error) {
	t.Callsign = r.Callsign
	r.lock.Lock()
	t.Index = r.index.Next()
	r.lock.Unlock()
	b, err := t.Bytes()
	if err != nil {
		return 0, err
	}
	return r.Send(b)
}

// SendData broadcasts data in a data record.
func (r *TupperSatRadio) SendData(data []byte) (int, error) {
	b, err := packet.DataPacket(r.Callsign, data)
	if err != nil {
		return 0, err
	}
	return r.Send(b)
}

// NextIndex peeks the index of the next telemetry record.
func (r *TupperSatRadio) NextIndex() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.index.Peek()
}
