package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// Emitter records domain events for later delivery.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{})
}

type EventService struct {
	outboxRepo repository.OutboxRepository
}

func NewEventService(outboxRepo repository.OutboxRepository) *EventService {
	return &EventService{outboxRepo: outboxRepo}
}

// Emit writes an outbox row. Failures are logged and never fail the caller.
func (s *EventService) Emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.CreateEvent(ctx, eventType, payload); err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Str("event_type", eventType).
			Msg("Failed to record outbox event")
	}
}

func (s *EventService) CreateEvent(ctx context.Context, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    model.OutboxStatusPending,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, string, interface{}) {}
