package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_TypedSubscriberReceivesPayload(t *testing.T) {
	bus := NewEventBus()

	var received []CalendarEventStored
	SubscribeTyped[CalendarEventStored](bus, CalendarEventStoredType,
		func(e EventT[CalendarEventStored]) error {
			received = append(received, e.Data)
			return nil
		})

	payload := CalendarEventStored{
		UID:       "abc",
		Title:     "Staff meeting",
		StartTime: time.Date(2024, time.May, 6, 15, 0, 0, 0, time.UTC),
	}
	err := bus.Publish(NewEvent(context.Background(), CalendarEventStoredType, payload))
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, payload, received[0])
}

func TestEventBus_TypeMismatchIsSkippedNotFatal(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	SubscribeTyped[CalendarEventDeleted](bus, CalendarEventStoredType,
		func(e EventT[CalendarEventDeleted]) error {
			calls++
			return nil
		})

	err := bus.Publish(NewEvent(context.Background(), CalendarEventStoredType, CalendarEventStored{UID: "abc"}))
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestEventBus_HandlerErrorsAreCollected(t *testing.T) {
	bus := NewEventBus()

	bus.Subscribe(ExceptionChangedType, func(e Event) error {
		return errors.New("subscriber failed")
	})
	ran := false
	bus.Subscribe(ExceptionChangedType, func(e Event) error {
		ran = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), ExceptionChangedType, ExceptionChanged{EventUID: "abc", Date: "2024-05-13"}))
	assert.Error(t, err)
	assert.True(t, ran)
}

func TestEventBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	unsubscribe := bus.Subscribe(CalendarEventDeletedType, func(e Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), CalendarEventDeletedType, CalendarEventDeleted{UID: "abc"})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CalendarEventDeletedType, CalendarEventDeleted{UID: "abc"})))

	assert.Equal(t, 1, calls)
}
