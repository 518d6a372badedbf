package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Loop runs controllers on a fixed interval.
type Loop struct {
	Interval time.Duration
	// Now is the clock of the loop, time.Now if nil.
	Now func() time.Time

	controllers [PriorityLevels][]Controller
	runners     []Runnable

	messages []Message
	lock     sync.Mutex
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: 100 * time.Millisecond}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
// Controllers which are also Runnable are started with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// PostMessage enqueues the message for the next tick. It is safe to call
// from any goroutine.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step(ctx)
		}
	}
}

// RunOrFail is intended to be used in main to run the loop until
// interrupted.
func (l *Loop) RunOrFail() {
	if err := NewRunner().HandleSignals().Go(l).Wait(); err != nil {
		log.Fatalln(err)
	}
}

// Step runs a single tick synchronously.
func (l *Loop) Step(ctx context.Context) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	tick := &tick{loop: l, ctx: ctx, time: now()}
	l.lock.Lock()
	tick.messages, l.messages = l.messages, nil
	l.lock.Unlock()
	for i := 0; i < PriorityLevels; i++ {
		tick.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(tick); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if len(tick.messages) > 0 {
		glog.V(3).Infof("%d messages not consumed", len(tick.messages))
	}
}

type tick struct {
	loop          *Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      []Message
}

func (t *tick) Context() context.Context { return t.ctx }
func (t *tick) Time() time.Time          { return t.time }
func (t *tick) PriorityLevel() int       { return t.priorityLevel }
func (t *tick) Messages() MessageStore   { return t }
func (t *tick) PostMessage(msg Message)  { t.loop.PostMessage(msg) }
func (t *tick) Len() int                 { return len(t.messages) }

func (t *tick) ProcessMessages(fn func(Message) bool) {
	remains := t.messages[:0]
	for _, msg := range t.messages {
		if !fn(msg) {
			remains = append(remains, msg)
		}
	}
	for n := len(remains); n < len(t.messages); n++ {
		t.messages[n] = nil
	}
	t.messages = remains
}
