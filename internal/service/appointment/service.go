package appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const slotTakenMessage = "The fields doctor, appointment_date, appointment_time must make a unique set."

// Transitions allowed when strict transitions are enabled. Re-entering the
// current status is always allowed.
var allowedTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCancelled, model.AppointmentStatusCompleted},
}

var statusEvents = map[model.AppointmentStatus]string{
	model.AppointmentStatusConfirmed: model.EventAppointmentConfirmed,
	model.AppointmentStatusCancelled: model.EventAppointmentCancelled,
	model.AppointmentStatusCompleted: model.EventAppointmentCompleted,
}

type AppointmentServicer interface {
	BookAppointment(ctx context.Context, req model.BookAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, req model.UpdateAppointmentRequest) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
	ListAppointments(ctx context.Context, filter model.AppointmentFilter, page model.Page) ([]*model.Appointment, int, error)
	ConfirmAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	CompleteAppointment(ctx context.Context, id int64, req model.CompleteAppointmentRequest) (*model.Appointment, error)
}

type Options struct {
	// StrictTransitions rejects status changes outside allowedTransitions.
	StrictTransitions bool
}

type Service struct {
	repo     repository.AppointmentRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	events   event.Emitter
	metrics  *metrics.Metrics
	opts     Options
}

func NewService(
	repo repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	events event.Emitter,
	m *metrics.Metrics,
	opts Options,
) *Service {
	if events == nil {
		events = event.Nop{}
	}
	return &Service{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		events:   events,
		metrics:  m,
		opts:     opts,
	}
}

// ParseFilter builds a list filter from raw query parameters. Empty values
// are ignored.
func ParseFilter(patientID, doctorID, status string) (model.AppointmentFilter, error) {
	var filter model.AppointmentFilter
	fields := map[string][]string{}

	if patientID != "" {
		id, err := strconv.ParseInt(patientID, 10, 64)
		if err != nil {
			fields["patient_id"] = []string{"A valid integer is required."}
		} else {
			filter.PatientID = &id
		}
	}
	if doctorID != "" {
		id, err := strconv.ParseInt(doctorID, 10, 64)
		if err != nil {
			fields["doctor_id"] = []string{"A valid integer is required."}
		} else {
			filter.DoctorID = &id
		}
	}
	if status != "" {
		s := model.AppointmentStatus(status)
		filter.Status = &s
	}

	if len(fields) > 0 {
		return filter, apperrors.NewValidation(fields, nil)
	}
	return filter, nil
}

// BookAppointment finds or creates the patient by email and books the slot
// for them. A taken slot is reported as a validation error.
func (s *Service) BookAppointment(ctx context.Context, req model.BookAppointmentRequest) (*model.Appointment, error) {
	date, err := model.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, apperrors.Validation("appointment_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	if req.DoctorID == nil {
		return nil, apperrors.Validation("doctor_id", "This field is required.")
	}

	patient := &model.Patient{
		FullName: req.PatientName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	apt := &model.Appointment{
		DoctorID:        *req.DoctorID,
		AppointmentDate: date,
		AppointmentTime: model.TimeLabel(req.AppointmentTime),
		Reason:          req.Reason,
		Status:          model.AppointmentStatusPending,
	}

	if err := s.repo.Book(ctx, patient, apt); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("Doctor", err)
		case errors.Is(err, repository.ErrConflict):
			return nil, slotTaken(err)
		}
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}
	s.events.Emit(ctx, model.EventAppointmentBooked, model.NewAppointmentEvent(apt))

	log.Ctx(ctx).Info().
		Int64("appointment_id", apt.ID).
		Int64("doctor_id", apt.DoctorID).
		Str("date", apt.AppointmentDate.String()).
		Str("time", string(apt.AppointmentTime)).
		Msg("Appointment booked")

	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id int64, req model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := apt.Status

	if err := apt.Apply(req); err != nil {
		return nil, apperrors.Validation("appointment_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	if err := s.checkReferences(ctx, apt); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("Appointment", err)
		case errors.Is(err, repository.ErrConflict):
			return nil, slotTaken(err)
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	// Writes do not return the joined view; reload it.
	updated, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emitTransition(ctx, previous, updated)
	return updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Appointment", err)
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filter model.AppointmentFilter, page model.Page) ([]*model.Appointment, int, error) {
	appointments, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (s *Service) ConfirmAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, nil)
}

func (s *Service) CancelAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCancelled, nil)
}

// CompleteAppointment marks the appointment completed and overwrites its
// notes and prescription.
func (s *Service) CompleteAppointment(ctx context.Context, id int64, req model.CompleteAppointmentRequest) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted, func(apt *model.Appointment) {
		apt.Notes = req.Notes
		apt.Prescription = req.Prescription
	})
}

func (s *Service) transition(ctx context.Context, id int64, target model.AppointmentStatus, mutate func(*model.Appointment)) (*model.Appointment, error) {
	apt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := apt.Status
	if s.opts.StrictTransitions && !canTransition(previous, target) {
		return nil, apperrors.Validation("status",
			fmt.Sprintf("Cannot change appointment status from %s to %s.", previous, target))
	}

	apt.Status = target
	if mutate != nil {
		mutate(apt)
	}

	if err := s.repo.UpdateStatus(ctx, apt); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("Appointment", err)
		case errors.Is(err, repository.ErrConflict):
			return nil, slotTaken(err)
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	s.emitTransition(ctx, previous, apt)
	return apt, nil
}

func (s *Service) emitTransition(ctx context.Context, previous model.AppointmentStatus, apt *model.Appointment) {
	if previous == apt.Status {
		return
	}
	if eventType, ok := statusEvents[apt.Status]; ok {
		s.events.Emit(ctx, eventType, model.NewAppointmentEvent(apt))
	}
}

func (s *Service) checkReferences(ctx context.Context, apt *model.Appointment) error {
	fields := map[string][]string{}
	if _, err := s.patients.Get(ctx, apt.PatientID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		fields["patient"] = []string{invalidPK(apt.PatientID)}
	}
	if _, err := s.doctors.Get(ctx, apt.DoctorID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to get doctor: %w", err)
		}
		fields["doctor"] = []string{invalidPK(apt.DoctorID)}
	}
	if len(fields) > 0 {
		return apperrors.NewValidation(fields, nil)
	}
	return nil
}

func canTransition(from, to model.AppointmentStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func slotTaken(err error) error {
	return apperrors.NewValidation(map[string][]string{"non_field_errors": {slotTakenMessage}}, err)
}

func invalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}
