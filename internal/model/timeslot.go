package model

// TimeLabel is one of the fixed bookable clock times.
type TimeLabel string

const (
	Time0900 TimeLabel = "09:00"
	Time1000 TimeLabel = "10:00"
	Time1100 TimeLabel = "11:00"
	Time1200 TimeLabel = "12:00"
	Time1400 TimeLabel = "14:00"
	Time1500 TimeLabel = "15:00"
	Time1600 TimeLabel = "16:00"
	Time1700 TimeLabel = "17:00"
)

var timeLabels = map[TimeLabel]string{
	Time0900: "09:00 AM",
	Time1000: "10:00 AM",
	Time1100: "11:00 AM",
	Time1200: "12:00 PM",
	Time1400: "02:00 PM",
	Time1500: "03:00 PM",
	Time1600: "04:00 PM",
	Time1700: "05:00 PM",
}

// TimeLabels lists every time code in chronological order.
func TimeLabels() []string {
	return []string{
		string(Time0900), string(Time1000), string(Time1100), string(Time1200),
		string(Time1400), string(Time1500), string(Time1600), string(Time1700),
	}
}

func (t TimeLabel) Valid() bool {
	_, ok := timeLabels[t]
	return ok
}

func (t TimeLabel) Display() string {
	if label, ok := timeLabels[t]; ok {
		return label
	}
	return string(t)
}

type TimeSlot struct {
	ID          int64     `json:"id" db:"id"`
	DoctorID    int64     `json:"doctor" db:"doctor_id"`
	Time        TimeLabel `json:"time" db:"time"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
}

// AvailableSlot is one bookable time returned by the availability query.
type AvailableSlot struct {
	Time    TimeLabel `json:"time"`
	Display string    `json:"display"`
}

type TimeSlotFilter struct {
	DoctorID    *int64
	IsAvailable *bool
}

type CreateTimeSlotRequest struct {
	DoctorID    int64  `json:"doctor" binding:"required"`
	Time        string `json:"time" binding:"required,timelabel"`
	IsAvailable *bool  `json:"is_available"`
}

type UpdateTimeSlotRequest struct {
	DoctorID    *int64  `json:"doctor"`
	Time        *string `json:"time" binding:"omitempty,timelabel"`
	IsAvailable *bool   `json:"is_available"`
}

func (r CreateTimeSlotRequest) ToUpdate() UpdateTimeSlotRequest {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return UpdateTimeSlotRequest{
		DoctorID:    &r.DoctorID,
		Time:        &r.Time,
		IsAvailable: &available,
	}
}

func (s *TimeSlot) Apply(req UpdateTimeSlotRequest) {
	if req.DoctorID != nil {
		s.DoctorID = *req.DoctorID
	}
	if req.Time != nil {
		s.Time = TimeLabel(*req.Time)
	}
	if req.IsAvailable != nil {
		s.IsAvailable = *req.IsAvailable
	}
}
