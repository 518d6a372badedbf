package packet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Verb selects how a value is rendered.
type Verb int

// Verbs.
const (
	VerbText Verb = iota
	VerbInteger
	VerbFloat
)

// Spec describes the rendering of one field.
type Spec struct {
	Verb      Verb
	Sign      bool // always print the sign
	ZeroPad   bool // pad with zeros after the sign
	Left      bool // left justify
	Width     int
	Precision int
}

// String renders the spec in the conventional mini-language, e.g. "+09.5f".
func (s Spec) String() string {
	var b strings.Builder
	if s.Left {
		b.WriteByte('<')
	}
	if s.Sign {
		b.WriteByte('+')
	}
	if s.ZeroPad {
		b.WriteByte('0')
	}
	if s.Width > 0 {
		b.WriteString(strconv.Itoa(s.Width))
	}
	switch s.Verb {
	case VerbInteger:
		b.WriteByte('d')
	case VerbFloat:
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(s.Precision))
		b.WriteByte('f')
	}
	return b.String()
}

func (s Spec) format() string {
	var b strings.Builder
	b.WriteByte('%')
	if s.Sign {
		b.WriteByte('+')
	}
	if s.Left {
		b.WriteByte('-')
	} else if s.ZeroPad {
		b.WriteByte('0')
	}
	if s.Width > 0 {
		b.WriteString(strconv.Itoa(s.Width))
	}
	switch s.Verb {
	case VerbText:
		b.WriteByte('s')
	case VerbInteger:
		b.WriteByte('d')
	case VerbFloat:
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(s.Precision))
		b.WriteByte('f')
	}
	return b.String()
}

// FormatError indicates a value can't be rendered into its field.
type FormatError struct {
	Field  string
	Spec   string
	Value  string
	Reason string
}

// Error implements error.
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid format specifier %q for value %s: %s", e.Spec, e.Value, e.Reason)
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	return msg
}

func formatError(spec fmt.Stringer, v Value, reason string) *FormatError {
	return &FormatError{
		Spec:   spec.String(),
		Value:  v.typeName() + " " + strconv.Quote(v.String()),
		Reason: reason,
	}
}

// FormatField renders v under spec into exactly width characters.
// Absent values become width spaces, shorter renderings are padded with
// trailing spaces, anything that can't fit is a *FormatError.
func FormatField(v Value, width int, spec Spec) (string, error) {
	if v.IsAbsent() {
		return blank(width), nil
	}
	var s string
	switch spec.Verb {
	case VerbText:
		text, ok := v.Text()
		if !ok {
			return "", formatError(spec, v, "text required")
		}
		s = fmt.Sprintf(spec.format(), text)
	case VerbInteger:
		n, ok := v.Int()
		if !ok {
			return "", formatError(spec, v, "integer required")
		}
		s = fmt.Sprintf(spec.format(), n)
	case VerbFloat:
		f, ok := v.Float()
		if !ok {
			return "", formatError(spec, v, "number required")
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", formatError(spec, v, "not a finite number")
		}
		s = fmt.Sprintf(spec.format(), f)
	default:
		return "", formatError(spec, v, "unknown verb")
	}
	return fit(s, width, spec, v)
}

type clockSpec struct{}

func (clockSpec) String() string { return "HHMMSS" }

const clockLayout = "150405"

// FormatClock renders a time of day as HHMMSS into width characters.
func FormatClock(v Value, width int) (string, error) {
	if v.IsAbsent() {
		return blank(width), nil
	}
	t, ok := v.Time()
	if !ok {
		return "", formatError(clockSpec{}, v, "clock required")
	}
	return fit(t.Format(clockLayout), width, clockSpec{}, v)
}

// CallsignSize is the fixed width of the callsign field.
const CallsignSize = 8

// FormatCallsign truncates or pads a callsign to CallsignSize characters.
func FormatCallsign(callsign string) string {
	if len(callsign) > CallsignSize {
		callsign = callsign[:CallsignSize]
	}
	return callsign + blank(CallsignSize-len(callsign))
}

func fit(s string, width int, spec fmt.Stringer, v Value) (string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return "", formatError(spec, v, "non-ASCII character")
		}
	}
	if len(s) > width {
		return "", formatError(spec, v, fmt.Sprintf("%d characters exceed width %d", len(s), width))
	}
	return s + blank(width-len(s)), nil
}

func blank(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(" ", width)
}
