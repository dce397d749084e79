package outbox

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string { return e.name }

func TestBusFansOutToEverySubscriber(t *testing.T) {
	bus := NewBus(nil)
	ctx := context.Background()

	var a, b atomic.Int32
	got := make(chan struct{}, 4)
	bus.Subscribe("request.submitted", func(context.Context, domoutbox.Event) error {
		a.Add(1)
		got <- struct{}{}
		return nil
	})
	bus.Subscribe("request.submitted", func(context.Context, domoutbox.Event) error {
		b.Add(1)
		got <- struct{}{}
		return errors.New("handler failure is logged only")
	})
	bus.Subscribe("other", func(context.Context, domoutbox.Event) error {
		t.Error("unexpected delivery")
		return nil
	})
	bus.Start(ctx)

	require.NoError(t, bus.Publish(ctx, testEvent{name: "request.submitted"}))
	for i := 0; i < 2; i++ {
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatal("handler not invoked")
		}
	}
	bus.Stop(ctx)

	assert.EqualValues(t, 1, a.Load())
	assert.EqualValues(t, 1, b.Load())
}

func TestBusSurvivesHandlerPanic(t *testing.T) {
	bus := NewBus(nil)
	ctx := context.Background()

	got := make(chan struct{}, 1)
	bus.Subscribe("boom", func(context.Context, domoutbox.Event) error { panic("kaboom") })
	bus.Subscribe("ok", func(context.Context, domoutbox.Event) error {
		got <- struct{}{}
		return nil
	})
	bus.Start(ctx)

	require.NoError(t, bus.Publish(ctx, testEvent{name: "boom"}))
	require.NoError(t, bus.Publish(ctx, testEvent{name: "ok"}))
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("bus stopped dispatching after a panic")
	}
	bus.Stop(ctx)
}

func TestStopDrainsQueueAndRejectsLatePublish(t *testing.T) {
	bus := NewBus(nil)
	ctx := context.Background()

	var n atomic.Int32
	bus.Subscribe("tick", func(context.Context, domoutbox.Event) error {
		n.Add(1)
		return nil
	})
	bus.Start(ctx)
	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, testEvent{name: "tick"}))
	}

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	bus.Stop(stopCtx)

	assert.EqualValues(t, 10, n.Load())
	assert.ErrorIs(t, bus.Publish(ctx, testEvent{name: "tick"}), ErrClosed)
}

func TestPublishHonoursContextWhenQueueFull(t *testing.T) {
	bus := NewBus(nil, WithQueueSize(1))
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, testEvent{name: "x"}))

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := bus.Publish(short, testEvent{name: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, bus.Publish(ctx, nil))
}
