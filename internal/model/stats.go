package model

// DashboardStats are aggregate counts over the whole store.
type DashboardStats struct {
	TotalAppointments int `json:"total_appointments" db:"total_appointments"`
	Pending           int `json:"pending" db:"pending"`
	Confirmed         int `json:"confirmed" db:"confirmed"`
	TotalDoctors      int `json:"total_doctors" db:"total_doctors"`
	TotalPatients     int `json:"total_patients" db:"total_patients"`
}
