package radio

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/tuppersat/r2d1.go/pkg/rhserial"
)

// Receiver decodes frames read from a UART.
//
// Reader should support read timeouts (a UART opened with a positive
// read timeout) so ReadMessage can return once the wait expires.
type Receiver struct {
	Reader io.Reader

	rx      *rhserial.RXHandler
	pending []rhserial.Message
	buf     [1]byte
}

// NewReceiver creates a Receiver on r.
func NewReceiver(r io.Reader) *Receiver {
	rcv := &Receiver{Reader: r}
	rcv.rx = rhserial.NewRXHandler(rhserial.HandlerFunc(rcv.onMessage))
	return rcv
}

func (r *Receiver) onMessage(body []byte) {
	msg, err := rhserial.Unpack(body)
	if err != nil {
		glog.Warningf("RX discard %d bytes: %v", len(body), err)
		return
	}
	if glog.V(2) {
		glog.Infof("RX frame id=%d from=0x%02x to=0x%02x rssi=%d len=%d",
			msg.ID, msg.From, msg.To, msg.RSSI, len(msg.Payload))
	}
	r.pending = append(r.pending, msg)
}

// State gets the receive state machine state.
func (r *Receiver) State() rhserial.State {
	return r.rx.State()
}

// Stats gets receive counters.
func (r *Receiver) Stats() rhserial.RXStats {
	return r.rx.Stats()
}

// ReadMessage waits up to timeout for a complete message. ok is false if
// none arrived in time. A partial frame is kept for the next call.
func (r *Receiver) ReadMessage(ctx context.Context, timeout time.Duration) (msg rhserial.Message, ok bool, err error) {
	deadline := time.Now().Add(timeout)
	for {
		if len(r.pending) > 0 {
			msg = r.pending[0]
			r.pending = r.pending[1:]
			return msg, true, nil
		}
		select {
		case <-ctx.Done():
			return msg, false, ctx.Err()
		default:
		}
		if !time.Now().Before(deadline) {
			return msg, false, nil
		}
		n, err := r.Reader.Read(r.buf[:])
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			return msg, false, err
		}
		if n > 0 {
			r.rx.Update(r.buf[0])
		}
	}
}

// Run reads messages until ctx is done or the reader fails, passing each
// to h.
func (r *Receiver) Run(ctx context.Context, h func(context.Context, rhserial.Message)) error {
	for {
		msg, ok, err := r.ReadMessage(ctx, time.Second)
		if err != nil {
			return err
		}
		if ok {
			h(ctx, msg)
		}
	}
}
