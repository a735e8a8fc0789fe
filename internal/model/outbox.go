package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Appointment lifecycle event types.
const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventUserRegistered       = "USER_REGISTERED"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// AppointmentEvent is the payload of every appointment lifecycle event.
type AppointmentEvent struct {
	AppointmentID   int64             `json:"appointment_id"`
	PatientID       int64             `json:"patient_id"`
	PatientName     string            `json:"patient_name"`
	PatientEmail    string            `json:"patient_email"`
	DoctorID        int64             `json:"doctor_id"`
	DoctorName      string            `json:"doctor_name"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime TimeLabel         `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
}

func NewAppointmentEvent(a *Appointment) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:   a.ID,
		PatientID:       a.PatientID,
		PatientName:     a.PatientName,
		PatientEmail:    a.PatientEmail,
		DoctorID:        a.DoctorID,
		DoctorName:      a.DoctorName,
		AppointmentDate: a.AppointmentDate.String(),
		AppointmentTime: a.AppointmentTime,
		Status:          a.Status,
	}
}

type UserRegisteredEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
