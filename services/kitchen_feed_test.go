package services

import (
	"context"
	"testing"
	"time"

	"restopos/entity"
	"restopos/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orders(pairs ...any) []entity.Order {
	var out []entity.Order
	for i := 0; i < len(pairs); i += 2 {
		o := entity.Order{Status: pairs[i+1].(entity.OrderStatus)}
		o.ID = uint(pairs[i].(int))
		out = append(out, o)
	}
	return out
}

func TestChanged(t *testing.T) {
	base := orders(1, entity.OrderPending, 2, entity.OrderPreparing)

	assert.False(t, Changed(base, orders(1, entity.OrderPending, 2, entity.OrderPreparing)))
	assert.True(t, Changed(base, orders(1, entity.OrderPending)), "membership shrank")
	assert.True(t, Changed(base, orders(1, entity.OrderPending, 2, entity.OrderPreparing, 3, entity.OrderPending)), "membership grew")
	assert.True(t, Changed(base, orders(1, entity.OrderReady, 2, entity.OrderPreparing)), "status moved")
	assert.True(t, Changed(base, orders(1, entity.OrderPending, 3, entity.OrderPreparing)), "same size, different order")
	assert.True(t, Changed(nil, orders(1, entity.OrderPending)))
	assert.False(t, Changed(nil, nil))

	edited := orders(1, entity.OrderPending, 2, entity.OrderPreparing)
	edited[0].Notes = "sin azúcar"
	assert.False(t, Changed(base, edited), "notes are not part of the predicate")
}

func next(t *testing.T, ch <-chan KitchenEvent) KitchenEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no kitchen event")
	}
	return KitchenEvent{}
}

func quiet(t *testing.T, ch <-chan KitchenEvent) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected kitchen event with %d orders", len(ev.Orders))
	default:
	}
}

func TestKitchenFeedEmitsOnChange(t *testing.T) {
	f := newFixture(t)
	feed := NewKitchenFeed(f.db, time.Hour, logger.Discard())
	ctx := context.Background()

	events, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	a := f.createOrder(t, espressos(f, 1))
	feed.poll(ctx)
	ev := next(t, events)
	require.Len(t, ev.Orders, 1)
	assert.Equal(t, a.ID, ev.Orders[0].ID)
	assert.Len(t, ev.Orders[0].Items, 1)

	feed.poll(ctx)
	quiet(t, events)

	_, err := f.svc.UpdateStatus(ctx, a.ID, "PREPARING")
	require.NoError(t, err)
	feed.poll(ctx)
	ev = next(t, events)
	assert.Equal(t, entity.OrderPreparing, ev.Orders[0].Status)

	b := f.createOrder(t, espressos(f, 1))
	feed.poll(ctx)
	ev = next(t, events)
	require.Len(t, ev.Orders, 2)
	assert.Equal(t, a.ID, ev.Orders[0].ID, "oldest first")
	assert.Equal(t, b.ID, ev.Orders[1].ID)

	_, err = f.svc.UpdateStatus(ctx, a.ID, "DELIVERED")
	require.NoError(t, err)
	feed.poll(ctx)
	ev = next(t, events)
	require.Len(t, ev.Orders, 1)
	assert.Equal(t, b.ID, ev.Orders[0].ID)
}

func TestKitchenFeedLateSubscriberGetsSnapshot(t *testing.T) {
	f := newFixture(t)
	feed := NewKitchenFeed(f.db, time.Hour, logger.Discard())
	f.createOrder(t, espressos(f, 1))
	feed.poll(context.Background())

	events, unsubscribe := feed.Subscribe()
	defer unsubscribe()
	ev := next(t, events)
	assert.Len(t, ev.Orders, 1)
}

func TestKitchenFeedSlowSubscriberKeepsLatest(t *testing.T) {
	f := newFixture(t)
	feed := NewKitchenFeed(f.db, time.Hour, logger.Discard())
	ctx := context.Background()

	events, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	f.createOrder(t, espressos(f, 1))
	feed.poll(ctx)
	f.createOrder(t, espressos(f, 1))
	feed.poll(ctx)

	ev := next(t, events)
	assert.Len(t, ev.Orders, 2)
	quiet(t, events)
}

func TestKitchenFeedGivesUpAfterFailures(t *testing.T) {
	f := newFixture(t)
	feed := NewKitchenFeed(f.db, time.Hour, logger.Discard())
	ctx := context.Background()

	events, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	for i := 0; i < feed.MaxFailures-1; i++ {
		feed.poll(ctx)
	}
	quiet(t, events)

	feed.poll(ctx)
	ev := next(t, events)
	require.Error(t, ev.Err)

	_, ok := <-events
	assert.False(t, ok, "stream ends after the error event")
}

func TestKitchenFeedRunStopsWithContext(t *testing.T) {
	f := newFixture(t)
	feed := NewKitchenFeed(f.db, 10*time.Millisecond, logger.Discard())
	f.createOrder(t, espressos(f, 1))

	events, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	ev := next(t, events)
	assert.Len(t, ev.Orders, 1)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("feed did not stop")
	}
}
