package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
)

func TestEmitWritesPendingEvent(t *testing.T) {
	store := memory.NewStore()
	svc := NewEventService(store.Outbox)
	ctx := context.Background()

	svc.Emit(ctx, model.EventUserRegistered, model.UserRegisteredEvent{UserID: 3, Username: "jane"})

	events, err := store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventUserRegistered, events[0].EventType)

	var payload model.UserRegisteredEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "jane", payload.Username)
}

func TestCreateEventRejectsUnmarshalablePayload(t *testing.T) {
	svc := NewEventService(memory.NewStore().Outbox)
	err := svc.CreateEvent(context.Background(), "BROKEN", make(chan int))
	assert.Error(t, err)
}
