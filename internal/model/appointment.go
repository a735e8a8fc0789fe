package model

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// AppointmentStatuses lists every status code.
func AppointmentStatuses() []string {
	return []string{
		string(AppointmentStatusPending),
		string(AppointmentStatusConfirmed),
		string(AppointmentStatusCancelled),
		string(AppointmentStatusCompleted),
	}
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Blocking reports whether an appointment in this status occupies its slot
// for availability purposes.
func (s AppointmentStatus) Blocking() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// Appointment is stored with patient and doctor references; the read-only
// patient_* and doctor_* fields are joined in on every read.
type Appointment struct {
	Base
	PatientID       int64             `json:"patient" db:"patient_id"`
	DoctorID        int64             `json:"doctor" db:"doctor_id"`
	AppointmentDate Date              `json:"appointment_date" db:"appointment_date"`
	AppointmentTime TimeLabel         `json:"appointment_time" db:"appointment_time"`
	Reason          string            `json:"reason" db:"reason"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Notes           string            `json:"notes" db:"notes"`
	Prescription    string            `json:"prescription" db:"prescription"`

	PatientName     string `json:"patient_name" db:"patient_name"`
	PatientEmail    string `json:"patient_email" db:"patient_email"`
	PatientPhone    string `json:"patient_phone" db:"patient_phone"`
	DoctorName      string `json:"doctor_name" db:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty" db:"doctor_specialty"`
}

// ResolveLabels converts joined raw codes into display labels.
func (a *Appointment) ResolveLabels() {
	a.DoctorSpecialty = Specialty(a.DoctorSpecialty).Display()
}

// SetPatient copies the display fields of p.
func (a *Appointment) SetPatient(p *Patient) {
	a.PatientID = p.ID
	a.PatientName = p.FullName
	a.PatientEmail = p.Email
	a.PatientPhone = p.Phone
}

// SetDoctor copies the display fields of d.
func (a *Appointment) SetDoctor(d *Doctor) {
	a.DoctorID = d.ID
	a.DoctorName = d.Name
	a.DoctorSpecialty = d.Specialty.Display()
}

type AppointmentFilter struct {
	PatientID *int64
	DoctorID  *int64
	Status    *AppointmentStatus
}

// BookAppointmentRequest books a slot for a patient identified by email.
type BookAppointmentRequest struct {
	PatientName     string `json:"patient_name" binding:"required,max=200"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required,max=17"`
	DoctorID        *int64 `json:"doctor_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required,isodate"`
	AppointmentTime string `json:"appointment_time" binding:"required,max=5,timelabel"`
	Reason          string `json:"reason" binding:"required"`
}

// UpdateAppointmentRequest is a partial update; nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	PatientID       *int64  `json:"patient"`
	DoctorID        *int64  `json:"doctor"`
	AppointmentDate *string `json:"appointment_date" binding:"omitempty,isodate"`
	AppointmentTime *string `json:"appointment_time" binding:"omitempty,max=5,timelabel"`
	Reason          *string `json:"reason"`
	Status          *string `json:"status" binding:"omitempty,appointmentstatus"`
	Notes           *string `json:"notes"`
	Prescription    *string `json:"prescription"`
}

// ReplaceAppointmentRequest is the body of a full update.
type ReplaceAppointmentRequest struct {
	PatientID       *int64  `json:"patient" binding:"required"`
	DoctorID        *int64  `json:"doctor" binding:"required"`
	AppointmentDate string  `json:"appointment_date" binding:"required,isodate"`
	AppointmentTime string  `json:"appointment_time" binding:"required,max=5,timelabel"`
	Reason          string  `json:"reason" binding:"required"`
	Status          *string `json:"status" binding:"omitempty,appointmentstatus"`
	Notes           *string `json:"notes"`
	Prescription    *string `json:"prescription"`
}

func (r ReplaceAppointmentRequest) ToUpdate() UpdateAppointmentRequest {
	return UpdateAppointmentRequest{
		PatientID:       r.PatientID,
		DoctorID:        r.DoctorID,
		AppointmentDate: &r.AppointmentDate,
		AppointmentTime: &r.AppointmentTime,
		Reason:          &r.Reason,
		Status:          r.Status,
		Notes:           r.Notes,
		Prescription:    r.Prescription,
	}
}

type CompleteAppointmentRequest struct {
	Notes        string `json:"notes"`
	Prescription string `json:"prescription"`
}

// Apply copies the set fields of req onto a. Dates must already be validated.
func (a *Appointment) Apply(req UpdateAppointmentRequest) error {
	if req.PatientID != nil {
		a.PatientID = *req.PatientID
	}
	if req.DoctorID != nil {
		a.DoctorID = *req.DoctorID
	}
	if req.AppointmentDate != nil {
		date, err := ParseDate(*req.AppointmentDate)
		if err != nil {
			return err
		}
		a.AppointmentDate = date
	}
	if req.AppointmentTime != nil {
		a.AppointmentTime = TimeLabel(*req.AppointmentTime)
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}
	if req.Status != nil {
		a.Status = AppointmentStatus(*req.Status)
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	if req.Prescription != nil {
		a.Prescription = *req.Prescription
	}
	return nil
}
