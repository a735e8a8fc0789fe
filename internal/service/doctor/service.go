package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type DoctorServicer interface {
	CreateDoctor(ctx context.Context, req model.CreateDoctorRequest) (*model.Doctor, error)
	GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
	UpdateDoctor(ctx context.Context, id int64, req model.UpdateDoctorRequest) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, id int64) error
	ListDoctors(ctx context.Context, filter model.DoctorFilter, page model.Page) ([]*model.Doctor, int, error)
	ListAvailableDoctors(ctx context.Context) ([]*model.Doctor, error)
	AvailableSlots(ctx context.Context, doctorID int64, date string) ([]model.AvailableSlot, error)

	CreateTimeSlot(ctx context.Context, req model.CreateTimeSlotRequest) (*model.TimeSlot, error)
	GetTimeSlot(ctx context.Context, id int64) (*model.TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, id int64, req model.UpdateTimeSlotRequest) (*model.TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, id int64) error
	ListTimeSlots(ctx context.Context, filter model.TimeSlotFilter, page model.Page) ([]*model.TimeSlot, int, error)
}

type Service struct {
	doctors      repository.DoctorRepository
	timeSlots    repository.TimeSlotRepository
	appointments repository.AppointmentRepository
}

func NewService(doctors repository.DoctorRepository, timeSlots repository.TimeSlotRepository, appointments repository.AppointmentRepository) *Service {
	return &Service{
		doctors:      doctors,
		timeSlots:    timeSlots,
		appointments: appointments,
	}
}

func (s *Service) CreateDoctor(ctx context.Context, req model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{}
	doctor.Apply(req.ToUpdate())

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, doctorWriteError(err)
	}
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id int64, req model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	doctor.Apply(req)
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, doctorWriteError(err)
	}
	return doctor, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Doctor", err)
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}

func (s *Service) ListDoctors(ctx context.Context, filter model.DoctorFilter, page model.Page) ([]*model.Doctor, int, error) {
	doctors, total, err := s.doctors.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, total, nil
}

func (s *Service) ListAvailableDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctors.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	return doctors, nil
}

// AvailableSlots returns the doctor's enabled time slots minus the times
// held by pending or confirmed appointments on date, ordered by time.
func (s *Service) AvailableSlots(ctx context.Context, doctorID int64, date string) ([]model.AvailableSlot, error) {
	if _, err := s.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	if date == "" {
		return nil, apperrors.BadRequest("Date parameter is required", nil)
	}
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid date format. Use YYYY-MM-DD.", err)
	}

	enabled := true
	slots, _, err := s.timeSlots.List(ctx, model.TimeSlotFilter{DoctorID: &doctorID, IsAvailable: &enabled}, model.Page{})
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}

	booked, err := s.appointments.BookedTimes(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}
	taken := make(map[model.TimeLabel]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	available := []model.AvailableSlot{}
	for _, slot := range slots {
		if taken[slot.Time] {
			continue
		}
		available = append(available, model.AvailableSlot{Time: slot.Time, Display: slot.Time.Display()})
	}
	return available, nil
}

func doctorWriteError(err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.Validation("email", "doctor with this email already exists.")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Doctor", err)
	}
	return fmt.Errorf("failed to save doctor: %w", err)
}
