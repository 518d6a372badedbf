package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopStepOrder(t *testing.T) {
	var order []int
	loop := NewLoop()
	for _, lv := range []int{PrLvTransmit, PrLvSense, PrLvControl} {
		lv := lv
		loop.AddController(lv, ControlFunc(func(ctx ControlContext) error {
			require.Equal(t, lv, ctx.PriorityLevel())
			order = append(order, lv)
			return nil
		}))
	}
	loop.Step(context.Background())
	require.Equal(t, []int{PrLvSense, PrLvControl, PrLvTransmit}, order)
}

func TestLoopMessagesNextTick(t *testing.T) {
	now := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	loop := &Loop{Now: func() time.Time { return now }}
	var seen []Message
	loop.AddController(PrLvSense, ControlFunc(func(ctx ControlContext) error {
		require.Equal(t, now, ctx.Time())
		ctx.PostMessage("reading")
		return nil
	}))
	loop.AddController(PrLvControl, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(func(msg Message) bool {
			seen = append(seen, msg)
			return msg == "reading"
		})
		return nil
	}))

	loop.Step(context.Background())
	require.Empty(t, seen)
	loop.PostMessage(42)
	loop.Step(context.Background())
	require.Equal(t, []Message{"reading", 42}, seen)
}

func TestLoopControllerErrorContinues(t *testing.T) {
	var ran bool
	loop := NewLoop()
	loop.AddController(PrLvControl, ControlFunc(func(ControlContext) error {
		return errors.New("boom")
	}))
	loop.AddController(PrLvTransmit, ControlFunc(func(ControlContext) error {
		ran = true
		return nil
	}))
	loop.Step(context.Background())
	require.True(t, ran)
}

func TestLoopRun(t *testing.T) {
	ticks := make(chan struct{}, 10)
	loop := &Loop{Interval: time.Millisecond}
	loop.AddController(PrLvControl, ControlFunc(func(ControlContext) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	<-ticks
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

type serviceController struct {
	started chan struct{}
	stopped chan struct{}
}

func (c *serviceController) Control(ControlContext) error { return nil }

func (c *serviceController) Run(ctx context.Context) error {
	close(c.started)
	<-ctx.Done()
	close(c.stopped)
	return nil
}

func TestLoopRunsRunnableControllers(t *testing.T) {
	ctl := &serviceController{started: make(chan struct{}), stopped: make(chan struct{})}
	loop := &Loop{Interval: time.Millisecond}
	loop.AddController(PrLvSense, ctl)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	<-ctl.started
	cancel()
	require.Equal(t, context.Canceled, <-done)
	select {
	case <-ctl.stopped:
	default:
		t.Fatal("runnable controller still running after loop returned")
	}
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())

	target := errors.New("target")
	errs.Add(target)
	require.Equal(t, "target", errs.Aggregate().Error())
	errs.Add(errors.New("other"))
	err := errs.Aggregate()
	require.True(t, errors.Is(err, target))
	require.Equal(t, "Multiple errors:\ntarget\nother", err.Error())
}

func TestRunnerWait(t *testing.T) {
	failure := errors.New("failed")
	r := NewRunner()
	r.Go(
		NamedRun("fail", RunFunc(func(context.Context) error { return failure })),
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	err := r.Wait()
	require.True(t, errors.Is(err, failure))
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	closed := 0
	closer := closerFunc(func() error {
		closed++
		close(unblock)
		return nil
	})
	cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closed)
}
