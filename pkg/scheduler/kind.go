// Package scheduler decides when records of each packet group are sent.
package scheduler

import (
	"fmt"
	"strings"
)

// Kind is the closed set of packet groups.
type Kind int

// Packet groups.
const (
	KindTelemetry Kind = iota
	KindData
	numKinds
)

var kindNames = [numKinds]string{
	KindTelemetry: "telemetry",
	KindData:      "data",
}

// Kinds lists all packet groups.
func Kinds() []Kind {
	return []Kind{KindTelemetry, KindData}
}

// ParseKind gets the Kind of a group name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedGroup, name)
}

// Valid reports whether k is a known group.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// String returns the configuration name of the group.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Label is the upper case name used in transmit logs.
func (k Kind) Label() string {
	return strings.ToUpper(k.String())
}
