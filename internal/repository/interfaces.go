package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
	// ErrInvalidReference is returned when a write points at a missing row.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id int64) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter model.DoctorFilter, page model.Page) ([]*model.Doctor, int, error)
		ListAvailable(ctx context.Context) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		// GetByEmail returns the oldest patient with the given email.
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter model.PatientFilter, page model.Page) ([]*model.Patient, int, error)
	}

	TimeSlotRepository interface {
		Create(ctx context.Context, slot *model.TimeSlot) error
		Get(ctx context.Context, id int64) (*model.TimeSlot, error)
		Update(ctx context.Context, slot *model.TimeSlot) error
		Delete(ctx context.Context, id int64) error
		// List orders by time; a zero page returns every match.
		List(ctx context.Context, filter model.TimeSlotFilter, page model.Page) ([]*model.TimeSlot, int, error)
	}

	AppointmentRepository interface {
		// Book finds or creates the patient by email and inserts apt for it in
		// one transaction. The patient's existing name and phone win.
		Book(ctx context.Context, patient *model.Patient, apt *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		UpdateStatus(ctx context.Context, apt *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter model.AppointmentFilter, page model.Page) ([]*model.Appointment, int, error)
		// BookedTimes returns the times held by pending or confirmed
		// appointments of a doctor on a date.
		BookedTimes(ctx context.Context, doctorID int64, date model.Date) ([]model.TimeLabel, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	TokenRepository interface {
		// GetOrCreate returns the user's token, storing candidate if none exists.
		GetOrCreate(ctx context.Context, userID int64, candidate string) (*model.AuthToken, error)
		GetByKey(ctx context.Context, key string) (*model.AuthToken, error)
		DeleteByUser(ctx context.Context, userID int64) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// GetPendingEvents returns up to limit pending events, oldest first.
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	StatsRepository interface {
		DashboardStats(ctx context.Context) (*model.DashboardStats, error)
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Store bundles every repository of one storage driver.
type Store struct {
	Doctors      DoctorRepository
	Patients     PatientRepository
	TimeSlots    TimeSlotRepository
	Appointments AppointmentRepository
	Users        UserRepository
	Tokens       TokenRepository
	Outbox       OutboxRepository
	Stats        StatsRepository
	Health       Pinger
}
