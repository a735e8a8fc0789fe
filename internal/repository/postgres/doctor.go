package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const doctorColumns = `id, name, specialty, email, phone, qualification, experience_years,
	consultation_fee, is_available, created_at, updated_at`

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			name, specialty, email, phone, qualification, experience_years,
			consultation_fee, is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		doctor.Name,
		doctor.Specialty,
		doctor.Email,
		doctor.Phone,
		doctor.Qualification,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.IsAvailable,
	).Scan(&doctor.ID, &doctor.CreatedAt, &doctor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", mapError(err))
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", mapError(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialty = $2, email = $3, phone = $4, qualification = $5,
			experience_years = $6, consultation_fee = $7, is_available = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		doctor.Name,
		doctor.Specialty,
		doctor.Email,
		doctor.Phone,
		doctor.Qualification,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.IsAvailable,
		doctor.ID,
	).Scan(&doctor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", mapError(err))
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", mapError(err))
	}
	return expectAffected(result)
}

func (r *doctorRepository) List(ctx context.Context, filter model.DoctorFilter, page model.Page) ([]*model.Doctor, int, error) {
	var w where
	if filter.Specialty != nil {
		w.add("specialty = ?", *filter.Specialty)
	}
	if filter.IsAvailable != nil {
		w.add("is_available = ?", *filter.IsAvailable)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		w.add("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", pattern, pattern, pattern)
	}

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM doctors` + w.String())
	if err := r.db.GetContext(ctx, &total, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	query, args := paginate(`SELECT `+doctorColumns+` FROM doctors`+w.String()+` ORDER BY name, id`, w.args, page)
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, total, nil
}

func (r *doctorRepository) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE is_available = TRUE ORDER BY name, id`
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	return doctors, nil
}
