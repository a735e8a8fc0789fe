package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type Specialty string

const (
	SpecialtyCardiology  Specialty = "cardiology"
	SpecialtyNeurology   Specialty = "neurology"
	SpecialtyPediatrics  Specialty = "pediatrics"
	SpecialtyOrthopedics Specialty = "orthopedics"
	SpecialtyDermatology Specialty = "dermatology"
	SpecialtyPsychiatry  Specialty = "psychiatry"
	SpecialtyOncology    Specialty = "oncology"
	SpecialtyGeneral     Specialty = "general"
)

var specialtyLabels = map[Specialty]string{
	SpecialtyCardiology:  "Cardiology",
	SpecialtyNeurology:   "Neurology",
	SpecialtyPediatrics:  "Pediatrics",
	SpecialtyOrthopedics: "Orthopedics",
	SpecialtyDermatology: "Dermatology",
	SpecialtyPsychiatry:  "Psychiatry",
	SpecialtyOncology:    "Oncology",
	SpecialtyGeneral:     "General Medicine",
}

// Specialties lists every specialty code in declaration order.
func Specialties() []string {
	return []string{
		string(SpecialtyCardiology), string(SpecialtyNeurology), string(SpecialtyPediatrics),
		string(SpecialtyOrthopedics), string(SpecialtyDermatology), string(SpecialtyPsychiatry),
		string(SpecialtyOncology), string(SpecialtyGeneral),
	}
}

func (s Specialty) Valid() bool {
	_, ok := specialtyLabels[s]
	return ok
}

// Display returns the human readable label; unknown codes are returned as is.
func (s Specialty) Display() string {
	if label, ok := specialtyLabels[s]; ok {
		return label
	}
	return string(s)
}

// Fee is a money amount with two decimal places, rendered as "500.00".
type Fee struct {
	decimal.Decimal
}

func NewFee(amount string) (Fee, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Fee{}, err
	}
	return Fee{d.Round(2)}, nil
}

func (f Fee) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.StringFixed(2))), nil
}

func (f Fee) String() string {
	return f.StringFixed(2)
}

type Doctor struct {
	Base
	Name            string    `json:"name" db:"name"`
	Specialty       Specialty `json:"specialty" db:"specialty"`
	Email           string    `json:"email" db:"email"`
	Phone           string    `json:"phone" db:"phone"`
	Qualification   string    `json:"qualification" db:"qualification"`
	ExperienceYears int       `json:"experience_years" db:"experience_years"`
	ConsultationFee Fee       `json:"consultation_fee" db:"consultation_fee"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
}

type DoctorFilter struct {
	Specialty   *Specialty
	IsAvailable *bool
	Search      string
}

type CreateDoctorRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Specialty       string `json:"specialty" binding:"required,specialty"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required,max=17,phone"`
	Qualification   string `json:"qualification" binding:"max=200"`
	ExperienceYears *int   `json:"experience_years" binding:"omitempty,gte=0"`
	ConsultationFee *Fee   `json:"consultation_fee"`
	IsAvailable     *bool  `json:"is_available"`
}

// UpdateDoctorRequest is a partial update; nil fields are left unchanged.
type UpdateDoctorRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=200"`
	Specialty       *string `json:"specialty" binding:"omitempty,specialty"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Phone           *string `json:"phone" binding:"omitempty,max=17,phone"`
	Qualification   *string `json:"qualification" binding:"omitempty,max=200"`
	ExperienceYears *int    `json:"experience_years" binding:"omitempty,gte=0"`
	ConsultationFee *Fee    `json:"consultation_fee"`
	IsAvailable     *bool   `json:"is_available"`
}

// ToUpdate turns a full replacement into an update touching every field.
func (r CreateDoctorRequest) ToUpdate() UpdateDoctorRequest {
	experience := 0
	if r.ExperienceYears != nil {
		experience = *r.ExperienceYears
	}
	fee := Fee{}
	if r.ConsultationFee != nil {
		fee = *r.ConsultationFee
	}
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return UpdateDoctorRequest{
		Name:            &r.Name,
		Specialty:       &r.Specialty,
		Email:           &r.Email,
		Phone:           &r.Phone,
		Qualification:   &r.Qualification,
		ExperienceYears: &experience,
		ConsultationFee: &fee,
		IsAvailable:     &available,
	}
}

// Apply copies the set fields of req onto d.
func (d *Doctor) Apply(req UpdateDoctorRequest) {
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Specialty != nil {
		d.Specialty = Specialty(*req.Specialty)
	}
	if req.Email != nil {
		d.Email = *req.Email
	}
	if req.Phone != nil {
		d.Phone = *req.Phone
	}
	if req.Qualification != nil {
		d.Qualification = *req.Qualification
	}
	if req.ExperienceYears != nil {
		d.ExperienceYears = *req.ExperienceYears
	}
	if req.ConsultationFee != nil {
		d.ConsultationFee = *req.ConsultationFee
	}
	if req.IsAvailable != nil {
		d.IsAvailable = *req.IsAvailable
	}
}
