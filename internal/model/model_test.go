package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-10-20"`), &d))
	assert.Equal(t, NewDate(2025, time.October, 20), d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-20"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"20/10/2025"`), &d))

	var p Patient
	require.NoError(t, json.Unmarshal([]byte(`{"date_of_birth":null}`), &p))
	assert.Nil(t, p.DateOfBirth)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 10, 20, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2025-10-20", d.String())

	require.NoError(t, d.Scan([]byte("2025-01-02T00:00:00Z")))
	assert.Equal(t, "2025-01-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := NewDate(2025, time.March, 4).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", v)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "General Medicine", SpecialtyGeneral.Display())
	assert.Equal(t, "Cardiology", SpecialtyCardiology.Display())
	assert.False(t, Specialty("surgery").Valid())

	assert.Equal(t, "02:00 PM", Time1400.Display())
	assert.Equal(t, "12:00 PM", Time1200.Display())
	assert.False(t, TimeLabel("13:00").Valid())
	assert.Len(t, TimeLabels(), 8)
}

func TestFeeJSON(t *testing.T) {
	var d Doctor
	require.NoError(t, json.Unmarshal([]byte(`{"consultation_fee":"150.5"}`), &d))
	out, err := json.Marshal(d.ConsultationFee)
	require.NoError(t, err)
	assert.Equal(t, `"150.50"`, string(out))

	out, err = json.Marshal(Fee{})
	require.NoError(t, err)
	assert.Equal(t, `"0.00"`, string(out))
}

func TestAppointmentResolveLabels(t *testing.T) {
	apt := Appointment{DoctorSpecialty: "general"}
	apt.ResolveLabels()
	assert.Equal(t, "General Medicine", apt.DoctorSpecialty)

	apt.ResolveLabels()
	assert.Equal(t, "General Medicine", apt.DoctorSpecialty)
}

func TestPageWindow(t *testing.T) {
	start, end := Page{Number: 2, Size: 10}.Window(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = Page{Number: 3, Size: 10}.Window(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = Page{}.Window(4)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)

	start, end = Page{Number: math.MaxInt, Size: 10}.Window(4)
	assert.Equal(t, 4, start)
	assert.Equal(t, 4, end)
}

func TestStatusBlocking(t *testing.T) {
	assert.True(t, AppointmentStatusPending.Blocking())
	assert.True(t, AppointmentStatusConfirmed.Blocking())
	assert.False(t, AppointmentStatusCancelled.Blocking())
	assert.False(t, AppointmentStatusCompleted.Blocking())
}
