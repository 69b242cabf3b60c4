package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()
	bus := NewInMemoryEventBus(&EventBusConfig{
		BufferSize:     16,
		WorkerCount:    2,
		HandlerTimeout: time.Second,
	}, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	})
	return bus
}

func TestPublishDispatchesToSubscribers(t *testing.T) {
	bus := newTestBus(t)

	var seen []string
	var mu sync.Mutex
	handler := EventHandlerFunc{
		ID: "test-handler",
		Func: func(ctx context.Context, event Event) error {
			mu.Lock()
			seen = append(seen, event.GetEventType())
			mu.Unlock()
			return nil
		},
	}
	require.NoError(t, bus.Subscribe(EventBadgeUnlocked, handler))

	event := NewBadgeUnlockedEvent(42, 7, "Premier pas")
	require.NoError(t, bus.Publish(context.Background(), event))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, EventBadgeUnlocked, seen[0])
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	bus := newTestBus(t)

	var calls atomic.Int64
	handler := EventHandlerFunc{
		ID: "fail-handler",
		Func: func(ctx context.Context, event Event) error {
			calls.Add(1)
			return nil
		},
	}
	require.NoError(t, bus.Subscribe(EventFailCreated, handler))

	require.NoError(t, bus.Publish(context.Background(), NewCommentCreatedEvent(42, 1, 2)))
	assert.Equal(t, int64(0), calls.Load())
}

func TestPublishAsyncDrainsOnStop(t *testing.T) {
	bus := newTestBus(t)

	var handled atomic.Int64
	handler := EventHandlerFunc{
		ID: "counter",
		Func: func(ctx context.Context, event Event) error {
			handled.Add(1)
			return nil
		},
	}
	require.NoError(t, bus.Subscribe(EventReactionAdded, handler))

	const published = 10
	for i := 0; i < published; i++ {
		require.NoError(t, bus.PublishAsync(context.Background(),
			NewReactionAddedEvent(42, int64(i), "courage")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	assert.Equal(t, int64(published), handled.Load())
}

func TestSubscribeRejectsInvalidArguments(t *testing.T) {
	bus := newTestBus(t)

	assert.Error(t, bus.Subscribe("", EventHandlerFunc{ID: "h", Func: func(context.Context, Event) error { return nil }}))
	assert.Error(t, bus.Subscribe(EventFailCreated, nil))
}

func TestEventCarriesUserID(t *testing.T) {
	event := NewFailCreatedEvent(42, 7, "travail")

	require.NotNil(t, event.GetUserID())
	assert.Equal(t, int64(42), *event.GetUserID())
	assert.Equal(t, EventFailCreated, event.GetEventType())
	assert.NotEmpty(t, event.GetEventID())
}
