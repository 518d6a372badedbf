package rhserial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type rxTestStep struct {
	in     []byte
	expect State
}

type rxTestSequenceBuilder struct {
	steps []rxTestStep
}

func rxTestSequence() *rxTestSequenceBuilder {
	return &rxTestSequenceBuilder{}
}

func (b *rxTestSequenceBuilder) on(state State, in ...byte) *rxTestSequenceBuilder {
	b.steps = append(b.steps, rxTestStep{in: in, expect: state})
	return b
}

func (b *rxTestSequenceBuilder) frame(payload []byte, to, from, id, flag byte) *rxTestSequenceBuilder {
	return b.on(StateIdle, Pack(payload, to, from, id, flag)...)
}

func (b *rxTestSequenceBuilder) build() []rxTestStep {
	return b.steps
}

func TestRXHandlerTransitions(t *testing.T) {
	testCases := []struct {
		name      string
		steps     []rxTestStep
		delivered [][]byte
		stats     RXStats
	}{
		{
			name: "ignore noise while idle",
			steps: rxTestSequence().
				on(StateIdle, 0x00, 0x55, STX, ETX, 0xff).
				build(),
		},
		{
			name: "start sequence",
			steps: rxTestSequence().
				on(StateWaitStart, DLE).
				on(StateMessage, STX).
				on(StateMessage, 1, 2, 3, 4).
				on(StateMessageEscape, DLE).
				on(StateMessage, DLE).
				on(StateMessageEscape, DLE).
				on(StateChecksum1, ETX).
				on(StateChecksum2, 0x00).
				on(StateIdle, 0x00).
				build(),
			stats: RXStats{Dropped: 1},
		},
		{
			name: "abort on missing start",
			steps: rxTestSequence().
				on(StateWaitStart, DLE).
				on(StateIdle, 0x41).
				build(),
			stats: RXStats{Aborted: 1},
		},
		{
			name: "abort on bad escape",
			steps: rxTestSequence().
				on(StateMessage, DLE, STX, 1, 2).
				on(StateMessageEscape, DLE).
				on(StateIdle, 0x41).
				build(),
			stats: RXStats{Aborted: 1},
		},
		{
			name: "deliver frames back to back",
			steps: rxTestSequence().
				frame([]byte("a"), 1, 2, 3, 4).
				frame([]byte{DLE, DLE}, DLE, DLE, DLE, DLE).
				build(),
			delivered: [][]byte{
				{1, 2, 3, 4, 'a'},
				{DLE, DLE, DLE, DLE, DLE, DLE},
			},
			stats: RXStats{Delivered: 2},
		},
		{
			name: "resync after garbage",
			steps: rxTestSequence().
				on(StateMessage, 0x99, DLE, STX, 7, 7).
				on(StateIdle, DLE, 0x41).
				frame([]byte("ok"), 1, 2, 3, 0).
				build(),
			delivered: [][]byte{{1, 2, 3, 0, 'o', 'k'}},
			stats:     RXStats{Delivered: 1, Aborted: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var delivered [][]byte
			rx := NewRXHandler(HandlerFunc(func(body []byte) {
				delivered = append(delivered, body)
			}))
			for n, step := range tc.steps {
				var state State
				for _, b := range step.in {
					state = rx.Update(b)
				}
				require.Equalf(t, step.expect, state, "step[%d] state mismatch", n)
				require.Equal(t, state, rx.State())
			}
			require.Equal(t, tc.delivered, delivered)
			require.Equal(t, tc.stats, rx.Stats())
		})
	}
}

func TestRXHandlerChecksumMismatch(t *testing.T) {
	frame := Pack([]byte("payload"), 1, 2, 3, 4)
	frame[5] ^= 0x01

	var delivered int
	rx := NewRXHandler(HandlerFunc(func([]byte) { delivered++ }))
	for _, b := range frame {
		rx.Update(b)
	}
	require.Zero(t, delivered)
	require.Equal(t, StateIdle, rx.State())
	require.Equal(t, uint64(1), rx.Stats().Dropped)

	for _, b := range Pack([]byte("payload"), 1, 2, 3, 4) {
		rx.Update(b)
	}
	require.Equal(t, 1, delivered)
}

func TestRXHandlerOverflow(t *testing.T) {
	var delivered int
	rx := NewRXHandler(HandlerFunc(func([]byte) { delivered++ }))
	rx.MaxMessage = 8
	for _, b := range Pack([]byte("too long payload"), 1, 2, 3, 4) {
		rx.Update(b)
	}
	require.Zero(t, delivered)
	require.Equal(t, uint64(1), rx.Stats().Overflows)

	rx.Reset()
	for _, b := range Pack([]byte("ok"), 1, 2, 3, 4) {
		rx.Update(b)
	}
	require.Equal(t, 1, delivered)
}

func TestRXHandlerReset(t *testing.T) {
	var delivered int
	rx := NewRXHandler(HandlerFunc(func([]byte) { delivered++ }))
	frame := Pack([]byte("split"), 1, 2, 3, 4)
	for _, b := range frame[:6] {
		rx.Update(b)
	}
	require.Equal(t, StateMessage, rx.State())
	rx.Reset()
	require.Equal(t, StateIdle, rx.State())
	for _, b := range frame[6:] {
		rx.Update(b)
	}
	require.Zero(t, delivered)
}

func TestRXHandlerNilHandler(t *testing.T) {
	rx := NewRXHandler(nil)
	for _, b := range Pack([]byte("x"), 1, 2, 3, 4) {
		rx.Update(b)
	}
	require.Equal(t, uint64(1), rx.Stats().Delivered)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "IDLE", StateIdle.String())
	require.Equal(t, "MESSAGE_ESCAPE", StateMessageEscape.String())
	require.Equal(t, "CHECKSUM_2", StateChecksum2.String())
	require.Equal(t, "UNKNOWN", State(42).String())
}
