package model

type Patient struct {
	Base
	UserID         *int64 `json:"user" db:"user_id"`
	FullName       string `json:"full_name" db:"full_name"`
	Email          string `json:"email" db:"email"`
	Phone          string `json:"phone" db:"phone"`
	DateOfBirth    *Date  `json:"date_of_birth" db:"date_of_birth"`
	Address        string `json:"address" db:"address"`
	BloodGroup     string `json:"blood_group" db:"blood_group"`
	MedicalHistory string `json:"medical_history" db:"medical_history"`
}

type PatientFilter struct {
	Search string
}

type CreatePatientRequest struct {
	UserID         *int64  `json:"user"`
	FullName       string  `json:"full_name" binding:"required,max=200"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          string  `json:"phone" binding:"required,max=17,phone"`
	DateOfBirth    *string `json:"date_of_birth" binding:"omitempty,isodate"`
	Address        string  `json:"address"`
	BloodGroup     string  `json:"blood_group" binding:"max=5"`
	MedicalHistory string  `json:"medical_history"`
}

// UpdatePatientRequest is a partial update; nil fields are left unchanged.
type UpdatePatientRequest struct {
	UserID         *int64  `json:"user"`
	FullName       *string `json:"full_name" binding:"omitempty,max=200"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=17,phone"`
	DateOfBirth    *string `json:"date_of_birth" binding:"omitempty,isodate"`
	Address        *string `json:"address"`
	BloodGroup     *string `json:"blood_group" binding:"omitempty,max=5"`
	MedicalHistory *string `json:"medical_history"`
}

func (r CreatePatientRequest) ToUpdate() UpdatePatientRequest {
	return UpdatePatientRequest{
		UserID:         r.UserID,
		FullName:       &r.FullName,
		Email:          &r.Email,
		Phone:          &r.Phone,
		DateOfBirth:    r.DateOfBirth,
		Address:        &r.Address,
		BloodGroup:     &r.BloodGroup,
		MedicalHistory: &r.MedicalHistory,
	}
}

// Apply copies the set fields of req onto p. Dates must already be validated.
func (p *Patient) Apply(req UpdatePatientRequest) error {
	if req.UserID != nil {
		id := *req.UserID
		p.UserID = &id
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := ParseDate(*req.DateOfBirth)
		if err != nil {
			return err
		}
		p.DateOfBirth = &dob
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.BloodGroup != nil {
		p.BloodGroup = *req.BloodGroup
	}
	if req.MedicalHistory != nil {
		p.MedicalHistory = *req.MedicalHistory
	}
	return nil
}
