package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type PatientServicer interface {
	CreatePatient(ctx context.Context, req model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id int64) (*model.Patient, error)
	GetPatientByEmail(ctx context.Context, email string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	ListPatients(ctx context.Context, filter model.PatientFilter, page model.Page) ([]*model.Patient, int, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, req model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{}
	if err := patient.Apply(req.ToUpdate()); err != nil {
		return nil, apperrors.Validation("date_of_birth", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, patientWriteError(err, patient)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

// GetPatientByEmail returns the oldest patient registered with email.
func (s *Service) GetPatientByEmail(ctx context.Context, email string) (*model.Patient, error) {
	if email == "" {
		return nil, apperrors.BadRequest("Email parameter is required", nil)
	}

	patient, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patient.Apply(req); err != nil {
		return nil, apperrors.Validation("date_of_birth", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, patientWriteError(err, patient)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Patient", err)
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filter model.PatientFilter, page model.Page) ([]*model.Patient, int, error) {
	patients, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

func patientWriteError(err error, patient *model.Patient) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return apperrors.Validation("user", "patient with this user already exists.")
	case errors.Is(err, repository.ErrInvalidReference):
		var id int64
		if patient.UserID != nil {
			id = *patient.UserID
		}
		return apperrors.Validation("user", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("Patient", err)
	}
	return fmt.Errorf("failed to save patient: %w", err)
}
