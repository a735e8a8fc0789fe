package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

// NewStore wires every PostgreSQL repository onto one connection pool.
func NewStore(db *sqlx.DB) *repository.Store {
	base := NewBaseRepository(db)
	return &repository.Store{
		Doctors:      NewDoctorRepository(db),
		Patients:     NewPatientRepository(db),
		TimeSlots:    NewTimeSlotRepository(db),
		Appointments: NewAppointmentRepository(base),
		Users:        NewUserRepository(db),
		Tokens:       NewTokenRepository(base),
		Outbox:       NewOutboxRepository(base),
		Stats:        NewStatsRepository(db),
		Health:       &base,
	}
}
