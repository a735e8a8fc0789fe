package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
)

func TestStats(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	doctor := &model.Doctor{Name: "House", Email: "house@example.com"}
	require.NoError(t, store.Doctors.Create(ctx, doctor))

	date := model.NewDate(2025, time.October, 20)
	for i, at := range []model.TimeLabel{model.Time0900, model.Time1000, model.Time1100} {
		apt := &model.Appointment{DoctorID: doctor.ID, AppointmentDate: date, AppointmentTime: at, Status: model.AppointmentStatusPending}
		require.NoError(t, store.Appointments.Book(ctx, &model.Patient{Email: "jane@example.com"}, apt))
		if i == 0 {
			apt.Status = model.AppointmentStatusConfirmed
			require.NoError(t, store.Appointments.UpdateStatus(ctx, apt))
		}
	}

	stats, err := NewService(store.Stats).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardStats{
		TotalAppointments: 3,
		Pending:           2,
		Confirmed:         1,
		TotalDoctors:      1,
		TotalPatients:     1,
	}, stats)
}
