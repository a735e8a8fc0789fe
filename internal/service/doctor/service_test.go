package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func newService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store.Doctors, store.TimeSlots, store.Appointments), store
}

func createDoctor(t *testing.T, svc *Service, email string) *model.Doctor {
	t.Helper()
	doctor, err := svc.CreateDoctor(context.Background(), model.CreateDoctorRequest{
		Name:      "Gregory House",
		Specialty: "general",
		Email:     email,
		Phone:     "+14155550100",
	})
	require.NoError(t, err)
	return doctor
}

func TestCreateDoctorDefaults(t *testing.T) {
	svc, _ := newService(t)

	doctor := createDoctor(t, svc, "house@example.com")
	assert.True(t, doctor.IsAvailable)
	assert.Equal(t, 0, doctor.ExperienceYears)
	assert.Equal(t, "0.00", doctor.ConsultationFee.String())
}

func TestCreateDoctorDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	createDoctor(t, svc, "house@example.com")

	_, err := svc.CreateDoctor(context.Background(), model.CreateDoctorRequest{
		Name:      "Other",
		Specialty: "neurology",
		Email:     "house@example.com",
		Phone:     "+14155550101",
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"doctor with this email already exists."}, appErr.Fields["email"])
}

func TestUpdateDoctorPartial(t *testing.T) {
	svc, _ := newService(t)
	doctor := createDoctor(t, svc, "house@example.com")

	available := false
	updated, err := svc.UpdateDoctor(context.Background(), doctor.ID, model.UpdateDoctorRequest{IsAvailable: &available})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Gregory House", updated.Name)

	_, err = svc.UpdateDoctor(context.Background(), 999, model.UpdateDoctorRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestAvailableSlots(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	doctor := createDoctor(t, svc, "house@example.com")

	for _, at := range []string{"11:00", "09:00", "10:00"} {
		_, err := svc.CreateTimeSlot(ctx, model.CreateTimeSlotRequest{DoctorID: doctor.ID, Time: at})
		require.NoError(t, err)
	}
	disabled := false
	_, err := svc.CreateTimeSlot(ctx, model.CreateTimeSlotRequest{DoctorID: doctor.ID, Time: "14:00", IsAvailable: &disabled})
	require.NoError(t, err)

	// Book 10:00 on the day
	require.NoError(t, store.Appointments.Book(ctx, &model.Patient{Email: "jane@example.com"}, &model.Appointment{
		DoctorID:        doctor.ID,
		AppointmentDate: model.NewDate(2025, time.October, 20),
		AppointmentTime: model.Time1000,
		Status:          model.AppointmentStatusPending,
	}))

	slots, err := svc.AvailableSlots(ctx, doctor.ID, "2025-10-20")
	require.NoError(t, err)
	assert.Equal(t, []model.AvailableSlot{
		{Time: model.Time0900, Display: "09:00 AM"},
		{Time: model.Time1100, Display: "11:00 AM"},
	}, slots)

	// Other days are unaffected
	slots, err = svc.AvailableSlots(ctx, doctor.ID, "2025-10-21")
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestAvailableSlotsErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	doctor := createDoctor(t, svc, "house@example.com")

	_, err := svc.AvailableSlots(ctx, 999, "2025-10-20")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = svc.AvailableSlots(ctx, doctor.ID, "")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, "Date parameter is required", appErr.Message)

	_, err = svc.AvailableSlots(ctx, doctor.ID, "20-10-2025")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestTimeSlotConstraints(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	doctor := createDoctor(t, svc, "house@example.com")

	slot, err := svc.CreateTimeSlot(ctx, model.CreateTimeSlotRequest{DoctorID: doctor.ID, Time: "09:00"})
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)

	_, err = svc.CreateTimeSlot(ctx, model.CreateTimeSlotRequest{DoctorID: doctor.ID, Time: "09:00"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.CreateTimeSlot(ctx, model.CreateTimeSlotRequest{DoctorID: 404, Time: "09:00"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "doctor")

	require.NoError(t, svc.DeleteTimeSlot(ctx, slot.ID))
	_, err = svc.GetTimeSlot(ctx, slot.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
