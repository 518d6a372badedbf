package rhserial

// Handler receives messages which passed the checksum.
type Handler interface {
	OnMessage(body []byte)
}

// HandlerFunc is func type of Handler.
type HandlerFunc func(body []byte)

// OnMessage implements Handler.
func (f HandlerFunc) OnMessage(body []byte) {
	f(body)
}

// State is the state of RXHandler.
type State int

// States of the receive state machine.
const (
	StateIdle          State = iota // waiting for DLE
	StateWaitStart                  // DLE received, waiting for STX
	StateMessage                    // collecting header and payload
	StateMessageEscape              // DLE received inside message
	StateChecksum1                  // waiting for checksum high byte
	StateChecksum2                  // waiting for checksum low byte
)

var stateNames = [...]string{
	StateIdle:          "IDLE",
	StateWaitStart:     "WAIT_START",
	StateMessage:       "MESSAGE",
	StateMessageEscape: "MESSAGE_ESCAPE",
	StateChecksum1:     "CHECKSUM_1",
	StateChecksum2:     "CHECKSUM_2",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// RXStats counts frame outcomes since creation.
type RXStats struct {
	Delivered uint64
	Dropped   uint64 // checksum mismatch
	Aborted   uint64 // bad start or escape sequence
	Overflows uint64 // message longer than MaxMessage
}

// RXHandler reassembles frames fed one byte at a time.
// It is not safe for concurrent use.
type RXHandler struct {
	Handler Handler
	// MaxMessage aborts frames with longer bodies, 0 (the default) means
	// unlimited, matching Pack which has no payload bound.
	MaxMessage int

	state    State
	message  []byte
	checksum []byte
	stats    RXStats
}

// NewRXHandler creates an RXHandler delivering to h.
func NewRXHandler(h Handler) *RXHandler {
	return &RXHandler{Handler: h}
}

// State gets the current state.
func (r *RXHandler) State() State {
	return r.state
}

// Stats gets frame counters.
func (r *RXHandler) Stats() RXStats {
	return r.stats
}

// Reset drops any partial frame.
func (r *RXHandler) Reset() {
	r.state = StateIdle
	r.message = nil
	r.checksum = nil
}

// Update consumes one byte and returns the new state.
func (r *RXHandler) Update(b byte) State {
	switch r.state {
	case StateIdle:
		if b == DLE {
			r.state = StateWaitStart
		}
	case StateWaitStart:
		if b != STX {
			r.abort()
			break
		}
		r.message = nil
		r.state = StateMessage
	case StateMessage:
		if b == DLE {
			r.state = StateMessageEscape
			break
		}
		r.appendMessage(b)
	case StateMessageEscape:
		switch b {
		case DLE:
			r.state = StateMessage
			r.appendMessage(b)
		case ETX:
			r.checksum = make([]byte, 0, ChecksumSize)
			r.state = StateChecksum1
		default:
			r.abort()
		}
	case StateChecksum1:
		r.checksum = append(r.checksum, b)
		r.state = StateChecksum2
	case StateChecksum2:
		r.checksum = append(r.checksum, b)
		message, checksum := r.message, r.checksum
		r.Reset()
		if string(checksumBytes(sum16(message, tail))) != string(checksum) {
			r.stats.Dropped++
			break
		}
		r.stats.Delivered++
		if h := r.Handler; h != nil {
			h.OnMessage(message)
		}
	}
	return r.state
}

func (r *RXHandler) appendMessage(b byte) {
	if r.MaxMessage > 0 && len(r.message) >= r.MaxMessage {
		r.stats.Overflows++
		r.Reset()
		return
	}
	r.message = append(r.message, b)
}

func (r *RXHandler) abort() {
	r.stats.Aborted++
	r.Reset()
}
