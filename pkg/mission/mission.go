// Package mission runs the R2D1 flight: it samples grouped sensors,
// collects readings into records and hands them to the transmit
// scheduler.
package mission

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	fx "github.com/tuppersat/r2d1.go/pkg/framework"
	"github.com/tuppersat/r2d1.go/pkg/packet"
	"github.com/tuppersat/r2d1.go/pkg/scheduler"
	"github.com/tuppersat/r2d1.go/pkg/sensor"
)

// ReadingMessage carries one sampling pass of a group.
type ReadingMessage struct {
	Kind    scheduler.Kind
	Reading packet.Reading
}

// Group collects readings of a packet group.
type Group struct {
	Kind        scheduler.Kind
	Sensors     []sensor.Sensor
	StoreLength int

	fields []string
	rows   []packet.Reading
}

// NewGroup creates a Group.
func NewGroup(kind scheduler.Kind, storeLength int, sensors ...sensor.Sensor) *Group {
	if storeLength < 1 {
		storeLength = 1
	}
	return &Group{
		Kind:        kind,
		Sensors:     sensors,
		StoreLength: storeLength,
		fields:      sensor.Fields(sensors),
	}
}

// Fields lists the reading names of the group in row order.
func (g *Group) Fields() []string {
	return g.fields
}

// Stored gets the number of readings waiting to fill a record.
func (g *Group) Stored() int {
	return len(g.rows)
}

// Mission is the flight state.
type Mission struct {
	Epoch     time.Time
	Scheduler *scheduler.Scheduler
	Groups    []*Group
}

// New creates a Mission starting at epoch with groups sent by sender.
func New(epoch time.Time, sender scheduler.Sender, specs []GroupSpec, groups []*Group) *Mission {
	m := &Mission{Epoch: epoch, Groups: groups}
	sched := make([]scheduler.Group, 0, len(specs))
	for _, spec := range specs {
		sched = append(sched, scheduler.Group{Kind: spec.Kind, Interval: spec.Interval})
	}
	m.Scheduler = scheduler.New(epoch, sender, sched...)
	return m
}

// Setup prepares all sensors. Failed sensors are logged and keep
// reporting absent values.
func (m *Mission) Setup() {
	glog.Infof("------Mission Start------ %s", m.Epoch.Format(time.RFC3339))
	for _, g := range m.Groups {
		names := make([]string, 0, len(g.Sensors))
		for _, s := range g.Sensors {
			if err := s.Setup(); err != nil {
				glog.Errorf("SETUP > %s > %s: %v", g.Kind.Label(), s.Name(), err)
				continue
			}
			names = append(names, s.Name())
		}
		glog.Infof("SETUP > %s > %s", g.Kind.Label(), strings.Join(names, ", "))
	}
}

// Sense samples every group and posts the readings.
func (m *Mission) Sense(ctx fx.ControlContext) error {
	now := ctx.Time()
	for _, g := range m.Groups {
		ctx.PostMessage(&ReadingMessage{Kind: g.Kind, Reading: sensor.Sample(now, g.Sensors)})
	}
	return nil
}

// Collect stores posted readings and offers a record once a group has
// StoreLength of them.
func (m *Mission) Collect(ctx fx.ControlContext) error {
	var errs fx.AggregatedError
	ctx.Messages().ProcessMessages(func(msg fx.Message) bool {
		rm, ok := msg.(*ReadingMessage)
		if !ok {
			return false
		}
		errs.Add(m.Store(rm.Kind, rm.Reading))
		return true
	})
	return errs.Aggregate()
}

// Store adds a reading to its group.
func (m *Mission) Store(kind scheduler.Kind, r packet.Reading) error {
	g := m.group(kind)
	if g == nil {
		return scheduler.ErrUnrecognizedGroup
	}
	g.rows = append(g.rows, r)
	if len(g.rows) < g.StoreLength {
		return nil
	}
	rows := g.rows
	g.rows = nil
	rec, err := m.record(g, rows)
	if err != nil {
		return err
	}
	return m.Scheduler.Offer(rec)
}

func (m *Mission) record(g *Group, rows []packet.Reading) (scheduler.Record, error) {
	switch g.Kind {
	case scheduler.KindTelemetry:
		return &scheduler.TelemetryRecord{Telemetry: packet.NewTelemetry(rows[len(rows)-1])}, nil
	case scheduler.KindData:
		stats, err := m.Scheduler.Stats(g.Kind)
		if err != nil {
			return nil, err
		}
		return &scheduler.DataRecord{Data: packet.EncodeRows(stats.PacketCount+1, g.fields, rows)}, nil
	}
	return nil, fmt.Errorf("%w: %v", scheduler.ErrUnrecognizedGroup, g.Kind)
}

// Transmit runs the scheduler at the tick time. Link write failures are
// retried on later ticks.
func (m *Mission) Transmit(ctx fx.ControlContext) error {
	err := m.Scheduler.Tick(ctx.Time())
	var lwe *scheduler.LinkWriteError
	if errors.As(err, &lwe) {
		glog.Warningf("TRANSMIT > %s > retry later: %v", lwe.Kind.Label(), lwe.Err)
	}
	return err
}

// AddToLoop implements fx.LoopAdder.
func (m *Mission) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(m.Sense))
	l.AddController(fx.PrLvControl, fx.ControlFunc(m.Collect))
	l.AddController(fx.PrLvTransmit, fx.ControlFunc(m.Transmit))
}

func (m *Mission) group(kind scheduler.Kind) *Group {
	for _, g := range m.Groups {
		if g.Kind == kind {
			return g
		}
	}
	return nil
}

// SensorLookup resolves sensor names.
type SensorLookup func(names ...string) ([]sensor.Sensor, error)

// NewMission builds the mission from the config.
func (c *Config) NewMission(epoch time.Time, sender scheduler.Sender, lookup SensorLookup) (*Mission, error) {
	specs := c.GroupSpecs()
	groups := make([]*Group, 0, len(specs))
	for _, spec := range specs {
		sensors, err := lookup(spec.Sensors...)
		if err != nil {
			return nil, err
		}
		groups = append(groups, NewGroup(spec.Kind, spec.StoreLength, sensors...))
	}
	return New(epoch, sender, specs, groups), nil
}

// NewLoop creates the control loop running m.
func (c *Config) NewLoop(m *Mission) *fx.Loop {
	loop := fx.NewLoop()
	loop.Interval = c.LoopInterval
	return loop.Add(m)
}
