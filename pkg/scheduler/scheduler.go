package scheduler

import (
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/tuppersat/r2d1.go/pkg/framework"
	"github.com/tuppersat/r2d1.go/pkg/packet"
)

// Group configures one packet group.
type Group struct {
	Kind     Kind
	Interval time.Duration
}

// GroupStats is the transmit state of a group.
type GroupStats struct {
	Kind         Kind
	Interval     time.Duration
	LastTransmit time.Time
	PacketCount  uint64
	// PacketRate is packets per minute since the epoch.
	PacketRate float64
	Pending    bool
	// Empty is set once the interval elapsed with nothing pending and
	// cleared by the next Offer.
	Empty bool
}

var reportEmpty = func(k Kind) {
	glog.Infof("TRANSMIT > %s > EMPTY", k.Label())
}

type group struct {
	GroupStats
	pending Record
}

// Scheduler sends at most one record per group per interval.
// It is owned by the mission loop and not safe for concurrent use.
type Scheduler struct {
	Epoch  time.Time
	Sender Sender

	groups [numKinds]*group
}

// New creates a Scheduler. Groups with unknown kinds are logged and skipped.
func New(epoch time.Time, sender Sender, groups ...Group) *Scheduler {
	s := &Scheduler{Epoch: epoch, Sender: sender}
	for _, g := range groups {
		if !g.Kind.Valid() {
			glog.Warningf("scheduler: %v: %v", ErrUnrecognizedGroup, g.Kind)
			continue
		}
		s.groups[g.Kind] = &group{GroupStats: GroupStats{
			Kind:         g.Kind,
			Interval:     g.Interval,
			LastTransmit: epoch,
		}}
	}
	return s
}

// Offer replaces the pending record of its group.
func (s *Scheduler) Offer(r Record) error {
	g, err := s.group(r.Kind())
	if err != nil {
		return err
	}
	g.pending = r
	g.Empty = false
	return nil
}

// Pending reports whether a record waits in the group.
func (s *Scheduler) Pending(k Kind) bool {
	g, err := s.group(k)
	return err == nil && g.pending != nil
}

// Tick sends pending records of groups whose interval elapsed at now.
// Write failures are reported as *LinkWriteError and keep the record
// pending; records which can't be encoded are dropped and reported as
// *packet.FormatError.
func (s *Scheduler) Tick(now time.Time) error {
	var errs framework.AggregatedError
	for _, g := range s.groups {
		if g == nil || now.Sub(g.LastTransmit) < g.Interval {
			continue
		}
		errs.Add(s.transmit(g, now))
	}
	return errs.Aggregate()
}

func (s *Scheduler) transmit(g *group, now time.Time) error {
	if g.pending == nil {
		if !g.Empty {
			reportEmpty(g.Kind)
			g.Empty = true
		}
		return nil
	}
	if _, err := g.pending.send(s.Sender); err != nil {
		var fe *packet.FormatError
		if errors.As(err, &fe) {
			glog.Errorf("TRANSMIT > %s > dropped record: %v", g.Kind.Label(), err)
			g.pending = nil
			return err
		}
		return &LinkWriteError{Kind: g.Kind, Err: err}
	}
	g.pending = nil
	g.PacketCount++
	g.PacketRate = 0
	if minutes := now.Sub(s.Epoch).Minutes(); minutes > 0 {
		g.PacketRate = float64(g.PacketCount) / minutes
	}
	g.LastTransmit = now
	glog.Infof("TRANSMIT > %s > Packet Count - %d > Packet Rate - %g",
		g.Kind.Label(), g.PacketCount, g.PacketRate)
	return nil
}

// Stats gets the state of a group.
func (s *Scheduler) Stats(k Kind) (GroupStats, error) {
	g, err := s.group(k)
	if err != nil {
		return GroupStats{}, err
	}
	stats := g.GroupStats
	stats.Pending = g.pending != nil
	return stats, nil
}

func (s *Scheduler) group(k Kind) (*group, error) {
	if !k.Valid() || s.groups[k] == nil {
		return nil, ErrUnrecognizedGroup
	}
	return s.groups[k], nil
}
