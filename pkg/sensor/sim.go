package sensor

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tuppersat/r2d1.go/pkg/packet"
)

// Field names of the simulated environmental sensors.
const (
	FieldUV       = "uv"
	FieldHumidity = "humidity"
)

// Flight simulates a balloon flight profile shared by the simulated
// sensors: steady ascent to burst, then descent.
type Flight struct {
	Launch      time.Time
	Latitude    float64
	Longitude   float64
	AscentRate  float64 // m/s
	DescentRate float64 // m/s
	BurstAlt    float64 // m
	// Dropout is the probability of a value being absent.
	Dropout float64

	lock sync.Mutex
	rand *rand.Rand
}

// NewFlight creates a Flight launched at launch from a fixed site.
func NewFlight(launch time.Time, seed int64) *Flight {
	return &Flight{
		Launch:      launch,
		Latitude:    53.3065,
		Longitude:   -6.2210,
		AscentRate:  5,
		DescentRate: 8,
		BurstAlt:    30000,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

// Altitude gets the altitude in meters at now.
func (f *Flight) Altitude(now time.Time) float64 {
	t := now.Sub(f.Launch).Seconds()
	if t <= 0 {
		return 0
	}
	burstAt := f.BurstAlt / f.AscentRate
	if t <= burstAt {
		return t * f.AscentRate
	}
	return math.Max(0, f.BurstAlt-(t-burstAt)*f.DescentRate)
}

func (f *Flight) noise(scale float64) float64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return (f.rand.Float64()*2 - 1) * scale
}

// value rounds v to places decimals, or drops it.
func (f *Flight) value(v float64, places int) packet.Value {
	f.lock.Lock()
	drop := f.Dropout > 0 && f.rand.Float64() < f.Dropout
	f.lock.Unlock()
	if drop {
		return packet.Absent()
	}
	scale := math.Pow10(places)
	return packet.Float(math.Round(v*scale) / scale)
}

// Sensors creates the simulated sensor set.
func (f *Flight) Sensors() map[string]Sensor {
	return map[string]Sensor{
		"gps":         &GPS{Flight: f},
		"temperature": &Temperature{Flight: f},
		"pressure":    &Pressure{Flight: f},
		"uv":          &UV{Flight: f},
		"humidity":    &Humidity{Flight: f},
	}
}

// Lookup gets simulated sensors by name.
func (f *Flight) Lookup(names ...string) ([]Sensor, error) {
	all := f.Sensors()
	sensors := make([]Sensor, 0, len(names))
	for _, name := range names {
		s, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("unknown sensor %q", name)
		}
		sensors = append(sensors, s)
	}
	return sensors, nil
}

// GPS reports position and fix quality.
type GPS struct {
	Flight *Flight
}

// Name implements Sensor.
func (s *GPS) Name() string { return "GPS" }

// Fields implements Sensor.
func (s *GPS) Fields() []string {
	return []string{packet.FieldLatitude, packet.FieldLongitude, packet.FieldHDOP, packet.FieldAltitude}
}

// Setup implements Sensor.
func (s *GPS) Setup() error { return nil }

// Read implements Sensor.
func (s *GPS) Read(now time.Time) packet.Reading {
	f := s.Flight
	drift := now.Sub(f.Launch).Hours()
	return packet.Reading{
		packet.FieldLatitude:  f.value(f.Latitude+drift*0.05+f.noise(1e-5), 6),
		packet.FieldLongitude: f.value(f.Longitude+drift*0.2+f.noise(1e-5), 6),
		packet.FieldHDOP:      f.value(0.9+math.Abs(f.noise(0.3)), 2),
		packet.FieldAltitude:  f.value(f.Altitude(now)+f.noise(2), 1),
	}
}

// Temperature reports internal and external temperatures.
type Temperature struct {
	Flight *Flight
}

// Name implements Sensor.
func (s *Temperature) Name() string { return "Temperature" }

// Fields implements Sensor.
func (s *Temperature) Fields() []string {
	return []string{packet.FieldTInternal, packet.FieldTExternal}
}

// Setup implements Sensor.
func (s *Temperature) Setup() error { return nil }

// Read implements Sensor.
func (s *Temperature) Read(now time.Time) packet.Reading {
	f := s.Flight
	alt := f.Altitude(now)
	external := 15 - 0.0065*math.Min(alt, 11000)
	return packet.Reading{
		packet.FieldTInternal: f.value(20-alt/3000+f.noise(0.1), 3),
		packet.FieldTExternal: f.value(external+f.noise(0.2), 3),
	}
}

// Pressure reports barometric pressure in hPa.
type Pressure struct {
	Flight *Flight
}

// Name implements Sensor.
func (s *Pressure) Name() string { return "Pressure" }

// Fields implements Sensor.
func (s *Pressure) Fields() []string { return []string{packet.FieldPressure} }

// Setup implements Sensor.
func (s *Pressure) Setup() error { return nil }

// Read implements Sensor.
func (s *Pressure) Read(now time.Time) packet.Reading {
	f := s.Flight
	p := 1013.25 * math.Exp(-f.Altitude(now)/8434)
	return packet.Reading{packet.FieldPressure: f.value(p+f.noise(0.05), 4)}
}

// UV reports the UV index.
type UV struct {
	Flight *Flight
}

// Name implements Sensor.
func (s *UV) Name() string { return "UV" }

// Fields implements Sensor.
func (s *UV) Fields() []string { return []string{FieldUV} }

// Setup implements Sensor.
func (s *UV) Setup() error { return nil }

// Read implements Sensor.
func (s *UV) Read(now time.Time) packet.Reading {
	f := s.Flight
	uv := 3 + f.Altitude(now)/2500
	return packet.Reading{FieldUV: f.value(uv+f.noise(0.2), 2)}
}

// Humidity reports relative humidity in percent.
type Humidity struct {
	Flight *Flight
}

// Name implements Sensor.
func (s *Humidity) Name() string { return "Humidity" }

// Fields implements Sensor.
func (s *Humidity) Fields() []string { return []string{FieldHumidity} }

// Setup implements Sensor.
func (s *Humidity) Setup() error { return nil }

// Read implements Sensor.
func (s *Humidity) Read(now time.Time) packet.Reading {
	f := s.Flight
	h := math.Max(1, 70-f.Altitude(now)/400)
	return packet.Reading{FieldHumidity: f.value(h+f.noise(1), 1)}
}
