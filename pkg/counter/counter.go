// Package counter provides sequence counters used to number frames and packets.
package counter

// Counter returns consecutive numbers, optionally wrapping at a modulus.
// Each numbering stream owns its own Counter; it is not safe for concurrent use.
type Counter struct {
	count   uint64
	modulus uint64
}

// FrameIDModulus wraps the single-byte link frame id.
const FrameIDModulus uint64 = 0x100

// New creates a Counter starting at start. A zero modulus never wraps.
func New(start, modulus uint64) *Counter {
	c := &Counter{count: start, modulus: modulus}
	if modulus > 0 {
		c.count %= modulus
	}
	return c
}

// Next returns the current count and advances the counter.
func (c *Counter) Next() uint64 {
	n := c.count
	c.count++
	if c.modulus > 0 {
		c.count %= c.modulus
	}
	return n
}

// Peek returns the value the next call to Next will return.
func (c *Counter) Peek() uint64 {
	return c.count
}

// Modulus gets the wrap modulus, 0 if unbounded.
func (c *Counter) Modulus() uint64 {
	return c.modulus
}
