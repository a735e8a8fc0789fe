package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func seedDoctor(t *testing.T, store *repository.Store, name, email string) *model.Doctor {
	t.Helper()
	doctor := &model.Doctor{Name: name, Email: email, Specialty: model.SpecialtyCardiology, IsAvailable: true}
	require.NoError(t, store.Doctors.Create(context.Background(), doctor))
	return doctor
}

func booking(doctorID int64, date model.Date, at model.TimeLabel) *model.Appointment {
	return &model.Appointment{
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: at,
		Reason:          "Checkup",
		Status:          model.AppointmentStatusPending,
	}
}

func TestDoctorEmailUnique(t *testing.T) {
	store := NewStore()
	seedDoctor(t, store, "A", "a@example.com")

	err := store.Doctors.Create(context.Background(), &model.Doctor{Name: "B", Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestDoctorListFiltersAndOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedDoctor(t, store, "Zed", "z@example.com")
	seedDoctor(t, store, "Amy", "amy@example.com")
	off := &model.Doctor{Name: "Bob", Email: "bob@example.com", Specialty: model.SpecialtyNeurology}
	require.NoError(t, store.Doctors.Create(ctx, off))

	all, total, err := store.Doctors.List(ctx, model.DoctorFilter{}, model.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 2)
	assert.Equal(t, "Amy", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)

	available, err := store.Doctors.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	found, total, err := store.Doctors.List(ctx, model.DoctorFilter{Search: "AMY@"}, model.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Amy", found[0].Name)
}

func TestBookCreatesThenReusesPatient(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	doctor := seedDoctor(t, store, "House", "house@example.com")
	date := model.NewDate(2025, time.October, 20)

	first := &model.Patient{FullName: "Jane", Email: "jane@example.com", Phone: "+14155550100"}
	require.NoError(t, store.Appointments.Book(ctx, first, booking(doctor.ID, date, model.Time1000)))

	second := &model.Patient{FullName: "Janet", Email: "jane@example.com", Phone: "+14155550999"}
	apt := booking(doctor.ID, date, model.Time1100)
	require.NoError(t, store.Appointments.Book(ctx, second, apt))

	assert.Equal(t, first.ID, apt.PatientID)
	assert.Equal(t, "Jane", apt.PatientName)
	assert.Equal(t, "Cardiology", apt.DoctorSpecialty)

	_, total, err := store.Patients.List(ctx, model.PatientFilter{}, model.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestBookSlotConflictLeavesNoPatient(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	doctor := seedDoctor(t, store, "House", "house@example.com")
	date := model.NewDate(2025, time.October, 20)

	require.NoError(t, store.Appointments.Book(ctx, &model.Patient{Email: "a@example.com"}, booking(doctor.ID, date, model.Time1000)))

	err := store.Appointments.Book(ctx, &model.Patient{Email: "b@example.com"}, booking(doctor.ID, date, model.Time1000))
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = store.Patients.GetByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCancelledAppointmentFreesSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	doctor := seedDoctor(t, store, "House", "house@example.com")
	date := model.NewDate(2025, time.October, 20)

	apt := booking(doctor.ID, date, model.Time1000)
	require.NoError(t, store.Appointments.Book(ctx, &model.Patient{Email: "a@example.com"}, apt))

	booked, err := store.Appointments.BookedTimes(ctx, doctor.ID, date)
	require.NoError(t, err)
	assert.Equal(t, []model.TimeLabel{model.Time1000}, booked)

	apt.Status = model.AppointmentStatusCancelled
	require.NoError(t, store.Appointments.UpdateStatus(ctx, apt))

	booked, err = store.Appointments.BookedTimes(ctx, doctor.ID, date)
	require.NoError(t, err)
	assert.Empty(t, booked)

	require.NoError(t, store.Appointments.Book(ctx, &model.Patient{Email: "b@example.com"}, booking(doctor.ID, date, model.Time1000)))
}

func TestConcurrentBookingOneWinner(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	doctor := seedDoctor(t, store, "House", "house@example.com")
	date := model.NewDate(2025, time.October, 20)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Appointments.Book(ctx, &model.Patient{Email: "same@example.com"}, booking(doctor.ID, date, model.Time0900))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	_, total, err := store.Patients.List(ctx, model.PatientFilter{}, model.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestDeleteDoctorCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	doctor := seedDoctor(t, store, "House", "house@example.com")

	require.NoError(t, store.TimeSlots.Create(ctx, &model.TimeSlot{DoctorID: doctor.ID, Time: model.Time0900, IsAvailable: true}))
	require.NoError(t, store.Appointments.Book(ctx, &model.Patient{Email: "a@example.com"},
		booking(doctor.ID, model.NewDate(2025, time.October, 20), model.Time0900)))

	require.NoError(t, store.Doctors.Delete(ctx, doctor.ID))

	_, slots, _ := store.TimeSlots.List(ctx, model.TimeSlotFilter{}, model.Page{})
	_, apts, _ := store.Appointments.List(ctx, model.AppointmentFilter{}, model.Page{})
	assert.Zero(t, slots)
	assert.Zero(t, apts)

	stats, err := store.Stats.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPatients)
}

func TestTimeSlotConstraints(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	doctor := seedDoctor(t, store, "House", "house@example.com")

	require.NoError(t, store.TimeSlots.Create(ctx, &model.TimeSlot{DoctorID: doctor.ID, Time: model.Time1400}))
	require.NoError(t, store.TimeSlots.Create(ctx, &model.TimeSlot{DoctorID: doctor.ID, Time: model.Time0900}))

	err := store.TimeSlots.Create(ctx, &model.TimeSlot{DoctorID: doctor.ID, Time: model.Time0900})
	assert.ErrorIs(t, err, repository.ErrConflict)

	err = store.TimeSlots.Create(ctx, &model.TimeSlot{DoctorID: 404, Time: model.Time0900})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)

	slots, _, err := store.TimeSlots.List(ctx, model.TimeSlotFilter{DoctorID: &doctor.ID}, model.Page{})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, model.Time0900, slots[0].Time)
}

func TestPatientUserLink(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	user := &model.User{Username: "jane"}
	require.NoError(t, store.Users.Create(ctx, user))

	require.NoError(t, store.Patients.Create(ctx, &model.Patient{Email: "a@example.com", UserID: &user.ID}))
	err := store.Patients.Create(ctx, &model.Patient{Email: "b@example.com", UserID: &user.ID})
	assert.ErrorIs(t, err, repository.ErrConflict)

	missing := int64(99)
	err = store.Patients.Create(ctx, &model.Patient{Email: "c@example.com", UserID: &missing})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}

func TestTokenGetOrCreateIsStable(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	user := &model.User{Username: "jane"}
	require.NoError(t, store.Users.Create(ctx, user))

	first, err := store.Tokens.GetOrCreate(ctx, user.ID, "one")
	require.NoError(t, err)
	second, err := store.Tokens.GetOrCreate(ctx, user.ID, "two")
	require.NoError(t, err)
	assert.Equal(t, "one", second.Key)
	assert.Equal(t, first.Key, second.Key)

	require.NoError(t, store.Tokens.DeleteByUser(ctx, user.ID))
	_, err = store.Tokens.GetByKey(ctx, "one")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOutboxLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	event := &model.OutboxEvent{EventType: model.EventAppointmentBooked, Payload: []byte(`{}`)}
	require.NoError(t, store.Outbox.Create(ctx, event))

	pending, err := store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, store.Outbox.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil))
	pending, err = store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	deleted, err := store.Outbox.DeleteProcessedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
