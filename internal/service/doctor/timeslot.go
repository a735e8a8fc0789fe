package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func (s *Service) CreateTimeSlot(ctx context.Context, req model.CreateTimeSlotRequest) (*model.TimeSlot, error) {
	slot := &model.TimeSlot{}
	slot.Apply(req.ToUpdate())

	if err := s.timeSlots.Create(ctx, slot); err != nil {
		return nil, timeSlotWriteError(err, slot)
	}
	return slot, nil
}

func (s *Service) GetTimeSlot(ctx context.Context, id int64) (*model.TimeSlot, error) {
	slot, err := s.timeSlots.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Time slot", err)
		}
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}
	return slot, nil
}

func (s *Service) UpdateTimeSlot(ctx context.Context, id int64, req model.UpdateTimeSlotRequest) (*model.TimeSlot, error) {
	slot, err := s.GetTimeSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	slot.Apply(req)
	if err := s.timeSlots.Update(ctx, slot); err != nil {
		return nil, timeSlotWriteError(err, slot)
	}
	return slot, nil
}

func (s *Service) DeleteTimeSlot(ctx context.Context, id int64) error {
	if err := s.timeSlots.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Time slot", err)
		}
		return fmt.Errorf("failed to delete time slot: %w", err)
	}
	return nil
}

func (s *Service) ListTimeSlots(ctx context.Context, filter model.TimeSlotFilter, page model.Page) ([]*model.TimeSlot, int, error) {
	slots, total, err := s.timeSlots.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, total, nil
}

func timeSlotWriteError(err error, slot *model.TimeSlot) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewValidation(map[string][]string{
			"non_field_errors": {"The fields doctor, time must make a unique set."},
		}, err)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperrors.Validation("doctor", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", slot.DoctorID))
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("Time slot", err)
	}
	return fmt.Errorf("failed to save time slot: %w", err)
}
