package messaging

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/shared"
)

func newTestBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInMemoryEventBus(cfg)
}

func TestPublish_SyncDelivery(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	var got []shared.Event
	err := bus.Subscribe(shared.EventStreakAdvanced, func(e shared.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewStreakAdvancedEvent("s1", 7)
	require.NoError(t, bus.Publish(event))

	// Synchronous mode delivers before Publish returns.
	require.Len(t, got, 1)
	assert.Equal(t, shared.EventStreakAdvanced, got[0].EventType())
	assert.Equal(t, "s1", got[0].AggregateID())
}

func TestPublish_TypeFiltering(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	streaks := 0
	joins := 0
	require.NoError(t, bus.Subscribe(shared.EventStreakAdvanced, func(shared.Event) error {
		streaks++
		return nil
	}))
	require.NoError(t, bus.Subscribe(shared.EventStudentJoined, func(shared.Event) error {
		joins++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStreakAdvancedEvent("s1", 3)))
	require.NoError(t, bus.Publish(shared.NewStreakAdvancedEvent("s1", 4)))
	require.NoError(t, bus.Publish(shared.NewStudentJoinedEvent("c1", "s1")))

	assert.Equal(t, 2, streaks)
	assert.Equal(t, 1, joins)
}

func TestPublish_HandlerErrorIsSwallowed(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventStreakAdvanced, func(shared.Event) error {
		return errors.New("boom")
	}))

	// Fan-out failures never surface to the publisher.
	assert.NoError(t, bus.Publish(shared.NewStreakAdvancedEvent("s1", 3)))
	assert.Equal(t, int64(1), bus.Metrics().Failed(shared.EventStreakAdvanced))
}

func TestPublish_NoHandlers(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	assert.NoError(t, bus.Publish(shared.NewStudentJoinedEvent("c1", "s1")))
}

func TestSubscribeAll(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	seen := 0
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		seen++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStreakAdvancedEvent("s1", 3)))
	require.NoError(t, bus.Publish(shared.NewStudentJoinedEvent("c1", "s1")))

	assert.Equal(t, 2, seen)
}

func TestClosedBus(t *testing.T) {
	bus := newTestBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewStreakAdvancedEvent("s1", 3))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventStreakAdvanced, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	// Closing twice is a no-op.
	assert.NoError(t, bus.Close())
}

func TestMetrics_CountsPublishes(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventStreakAdvanced, func(shared.Event) error { return nil }))

	require.NoError(t, bus.Publish(shared.NewStreakAdvancedEvent("s1", 1)))
	require.NoError(t, bus.Publish(shared.NewStreakAdvancedEvent("s1", 2)))

	assert.Equal(t, int64(2), bus.Metrics().Published(shared.EventStreakAdvanced))
	assert.Equal(t, int64(0), bus.Metrics().Failed(shared.EventStreakAdvanced))
}
