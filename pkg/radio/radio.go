package radio

import (
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/tuppersat/r2d1.go/pkg/counter"
	"github.com/tuppersat/r2d1.go/pkg/rhserial"
)

// Radio transmits RH_Serial frames.
type Radio struct {
	Writer  io.Writer
	Address byte

	lock   sync.Mutex
	frames *counter.Counter
}

// NewRadio creates a Radio writing to w, sending from address.
func NewRadio(w io.Writer, address byte) *Radio {
	return &Radio{
		Writer:  w,
		Address: address,
		frames:  counter.New(0, counter.FrameIDModulus),
	}
}

// SendBytes packs payload into a frame and writes it.
// Every call consumes a frame id, even when the write fails.
func (r *Radio) SendBytes(payload []byte, to, flag byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	id := byte(r.frames.Next())
	frame := rhserial.Pack(payload, to, r.Address, id, flag)
	if glog.V(2) {
		glog.Infof("TX frame id=%d to=0x%02x len=%d", id, to, len(frame))
	}
	return r.Writer.Write(frame)
}

// Send broadcasts payload.
func (r *Radio) Send(payload []byte) (int, error) {
	return r.SendBytes(payload, rhserial.Broadcast, 0)
}

// SendText broadcasts a text message.
func (r *Radio) SendText(text string) (int, error) {
	return r.Send([]byte(text))
}

// NextFrameID peeks the id of the next frame.
func (r *Radio) NextFrameID() byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return byte(r.frames.Peek())
}
