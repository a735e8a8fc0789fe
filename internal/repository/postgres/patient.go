package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const patientColumns = `id, user_id, full_name, email, phone, date_of_birth, address,
	blood_group, medical_history, created_at, updated_at`

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if err := insertPatient(ctx, r.db, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", mapError(err))
	}
	return nil
}

func insertPatient(ctx context.Context, q sqlx.QueryerContext, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			user_id, full_name, email, phone, date_of_birth, address,
			blood_group, medical_history, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return q.QueryRowxContext(ctx, query,
		patient.UserID,
		patient.FullName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Address,
		patient.BloodGroup,
		patient.MedicalHistory,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", mapError(err))
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	patient, err := patientByEmail(ctx, r.db, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by email: %w", mapError(err))
	}
	return patient, nil
}

func patientByEmail(ctx context.Context, q sqlx.QueryerContext, email string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1 ORDER BY created_at, id LIMIT 1`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, q, &patient, query, email); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET user_id = $1, full_name = $2, email = $3, phone = $4, date_of_birth = $5,
			address = $6, blood_group = $7, medical_history = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		patient.UserID,
		patient.FullName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Address,
		patient.BloodGroup,
		patient.MedicalHistory,
		patient.ID,
	).Scan(&patient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", mapError(err))
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", mapError(err))
	}
	return expectAffected(result)
}

func (r *patientRepository) List(ctx context.Context, filter model.PatientFilter, page model.Page) ([]*model.Patient, int, error) {
	var w where
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		w.add("(full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", pattern, pattern, pattern)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM patients`+w.String()), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query, args := paginate(`SELECT `+patientColumns+` FROM patients`+w.String()+` ORDER BY created_at DESC, id DESC`, w.args, page)
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}
