package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type timeSlotRepository struct {
	db *sqlx.DB
}

func NewTimeSlotRepository(db *sqlx.DB) repository.TimeSlotRepository {
	return &timeSlotRepository{db: db}
}

func (r *timeSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		INSERT INTO time_slots (doctor_id, time, is_available)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRowxContext(ctx, query, slot.DoctorID, slot.Time, slot.IsAvailable).Scan(&slot.ID); err != nil {
		return fmt.Errorf("failed to create time slot: %w", mapError(err))
	}
	return nil
}

func (r *timeSlotRepository) Get(ctx context.Context, id int64) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	query := `SELECT id, doctor_id, time, is_available FROM time_slots WHERE id = $1`
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, fmt.Errorf("failed to get time slot: %w", mapError(err))
	}
	return &slot, nil
}

func (r *timeSlotRepository) Update(ctx context.Context, slot *model.TimeSlot) error {
	query := `UPDATE time_slots SET doctor_id = $1, time = $2, is_available = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, slot.DoctorID, slot.Time, slot.IsAvailable, slot.ID)
	if err != nil {
		return fmt.Errorf("failed to update time slot: %w", mapError(err))
	}
	return expectAffected(result)
}

func (r *timeSlotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time slot: %w", mapError(err))
	}
	return expectAffected(result)
}

func (r *timeSlotRepository) List(ctx context.Context, filter model.TimeSlotFilter, page model.Page) ([]*model.TimeSlot, int, error) {
	var w where
	if filter.DoctorID != nil {
		w.add("doctor_id = ?", *filter.DoctorID)
	}
	if filter.IsAvailable != nil {
		w.add("is_available = ?", *filter.IsAvailable)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM time_slots`+w.String()), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count time slots: %w", err)
	}

	query, args := paginate(`SELECT id, doctor_id, time, is_available FROM time_slots`+w.String()+` ORDER BY time, id`, w.args, page)
	slots := []*model.TimeSlot{}
	if err := r.db.SelectContext(ctx, &slots, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, total, nil
}
