// Package sensor defines the sensor boundary of the mission loop.
//
// Sensors never fail a read: a value which could not be measured is
// reported as packet.Absent so it renders as a blank field.
package sensor

import (
	"time"

	"github.com/tuppersat/r2d1.go/pkg/packet"
)

// Sensor produces named readings.
type Sensor interface {
	// Name identifies the sensor in logs.
	Name() string
	// Fields lists the reading names in a stable order.
	Fields() []string
	// Setup prepares the device, a failed setup leaves the sensor
	// reporting absent values.
	Setup() error
	// Read samples the device.
	Read(now time.Time) packet.Reading
}

// Sample reads all sensors into one reading stamped with the time of day.
func Sample(now time.Time, sensors []Sensor) packet.Reading {
	r := packet.Reading{packet.FieldHHMMSS: packet.Clock(now)}
	for _, s := range sensors {
		r = r.Merge(s.Read(now))
	}
	return r
}

// Fields lists the fields produced by Sample in order, hhmmss first.
// Duplicated names are listed once.
func Fields(sensors []Sensor) []string {
	names := []string{packet.FieldHHMMSS}
	seen := map[string]bool{packet.FieldHHMMSS: true}
	for _, s := range sensors {
		for _, name := range s.Fields() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
