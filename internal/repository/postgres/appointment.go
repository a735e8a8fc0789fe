package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const appointmentSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
		a.reason, a.status, a.notes, a.prescription, a.created_at, a.updated_at,
		p.full_name AS patient_name, p.email AS patient_email, p.phone AS patient_phone,
		d.name AS doctor_name, d.specialty AS doctor_specialty
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Book(ctx context.Context, patient *model.Patient, apt *model.Appointment) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var doctor model.Doctor
		err := tx.GetContext(ctx, &doctor, `SELECT id, name, specialty FROM doctors WHERE id = $1`, apt.DoctorID)
		if err != nil {
			return mapError(err)
		}

		// Serialize get-or-create per email for the rest of the transaction.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, patient.Email); err != nil {
			return err
		}

		existing, err := patientByEmail(ctx, tx, patient.Email)
		switch mapped := mapError(err); {
		case mapped == nil:
			*patient = *existing
		case mapped == repository.ErrNotFound:
			if err := insertPatient(ctx, tx, patient); err != nil {
				return mapError(err)
			}
		default:
			return mapped
		}

		apt.SetPatient(patient)
		apt.SetDoctor(&doctor)

		query := `
			INSERT INTO appointments (
				patient_id, doctor_id, appointment_date, appointment_time, reason,
				status, notes, prescription, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`
		return mapError(tx.QueryRowxContext(ctx, query,
			apt.PatientID,
			apt.DoctorID,
			apt.AppointmentDate,
			apt.AppointmentTime,
			apt.Reason,
			apt.Status,
			apt.Notes,
			apt.Prescription,
		).Scan(&apt.ID, &apt.CreatedAt, &apt.UpdatedAt))
	})
	if err != nil {
		return fmt.Errorf("failed to book appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, appointmentSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", mapError(err))
	}
	apt.ResolveLabels()
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, doctor_id = $2, appointment_date = $3, appointment_time = $4,
			reason = $5, status = $6, notes = $7, prescription = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		apt.PatientID,
		apt.DoctorID,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.Reason,
		apt.Status,
		apt.Notes,
		apt.Prescription,
		apt.ID,
	).Scan(&apt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", mapError(err))
	}
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, prescription = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, apt.Status, apt.Notes, apt.Prescription, apt.ID).Scan(&apt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", mapError(err))
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", mapError(err))
	}
	return expectAffected(result)
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter, page model.Page) ([]*model.Appointment, int, error) {
	var w where
	if filter.PatientID != nil {
		w.add("a.patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		w.add("a.doctor_id = ?", *filter.DoctorID)
	}
	if filter.Status != nil {
		w.add("a.status = ?", *filter.Status)
	}

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM appointments a` + w.String())
	if err := r.db.GetContext(ctx, &total, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query, args := paginate(appointmentSelect+w.String()+
		` ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC`, w.args, page)
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	for _, apt := range appointments {
		apt.ResolveLabels()
	}
	return appointments, total, nil
}

func (r *appointmentRepository) BookedTimes(ctx context.Context, doctorID int64, date model.Date) ([]model.TimeLabel, error) {
	query := `
		SELECT appointment_time
		FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND status IN ('pending', 'confirmed')
	`
	times := []model.TimeLabel{}
	if err := r.db.SelectContext(ctx, &times, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}
	return times, nil
}
