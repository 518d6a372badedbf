// Package packet renders sensor readings as fixed-width TupperSat records.
package packet

import (
	"math"
	"strconv"
	"time"
)

// Value is an optional scalar produced by a sensor.
// The zero Value is absent.
type Value struct {
	v interface{}
}

// Absent returns a Value carrying no reading.
func Absent() Value { return Value{} }

// Float wraps a floating point reading.
func Float(f float64) Value { return Value{v: f} }

// Int wraps an integer reading.
func Int(i int64) Value { return Value{v: i} }

// Text wraps a text reading.
func Text(s string) Value { return Value{v: s} }

// Clock wraps a time of day.
func Clock(t time.Time) Value { return Value{v: t} }

// IsAbsent reports whether no reading is present.
func (v Value) IsAbsent() bool { return v.v == nil }

// Float gets the value as float64, integers are converted.
func (v Value) Float() (float64, bool) {
	switch x := v.v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// Int gets the value as int64.
func (v Value) Int() (int64, bool) {
	x, ok := v.v.(int64)
	return x, ok
}

// Text gets the value as string.
func (v Value) Text() (string, bool) {
	x, ok := v.v.(string)
	return x, ok
}

// Time gets the value as time.Time.
func (v Value) Time() (time.Time, bool) {
	x, ok := v.v.(time.Time)
	return x, ok
}

// String renders the value without width constraints, absent is empty.
func (v Value) String() string {
	switch x := v.v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	case time.Time:
		return x.Format(clockLayout)
	}
	return ""
}

func (v Value) typeName() string {
	switch v.v.(type) {
	case nil:
		return "absent"
	case float64:
		return "float"
	case int64:
		return "integer"
	case string:
		return "text"
	case time.Time:
		return "clock"
	}
	return "unknown"
}

// Reading maps field names to values from one sampling pass.
type Reading map[string]Value

// Get returns the named value, absent if missing.
func (r Reading) Get(name string) Value {
	return r[name]
}

// Merge returns a new Reading with values from other overriding r.
func (r Reading) Merge(other Reading) Reading {
	merged := make(Reading, len(r)+len(other))
	for k, v := range r {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
