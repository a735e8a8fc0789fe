package email

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gomail/gomail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/model"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

var booked = model.AppointmentEvent{
	AppointmentID:   1,
	PatientName:     "Jane Doe",
	PatientEmail:    "jane@example.com",
	DoctorName:      "Gregory House",
	AppointmentDate: "2025-10-20",
	AppointmentTime: model.Time1400,
}

func TestNewServiceWithoutHostIsNop(t *testing.T) {
	_, ok := NewService(config.SMTPConfig{}).(Nop)
	assert.True(t, ok)
}

func TestSendAppointmentEmail(t *testing.T) {
	fake := &fakeSender{}
	svc := &SMTPService{sender: fake, from: "clinic@example.com"}

	require.NoError(t, svc.SendAppointmentEmail(context.Background(), model.EventAppointmentConfirmed, booked))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, fake.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Appointment confirmed"}, fake.sent[0].GetHeader("Subject"))
}

func TestSendAppointmentEmailSkipsUnknownEvents(t *testing.T) {
	fake := &fakeSender{}
	svc := &SMTPService{sender: fake}

	require.NoError(t, svc.SendAppointmentEmail(context.Background(), model.EventUserRegistered, booked))
	assert.Empty(t, fake.sent)
}

func TestSendAppointmentEmailError(t *testing.T) {
	svc := &SMTPService{sender: &fakeSender{err: errors.New("connection refused")}}
	err := svc.SendAppointmentEmail(context.Background(), model.EventAppointmentBooked, booked)
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	subject, body, ok := compose(model.EventAppointmentBooked, booked)
	require.True(t, ok)
	assert.Equal(t, "Appointment request received", subject)
	assert.Contains(t, body, "Hello Jane Doe")
	assert.Contains(t, body, "2025-10-20 at 02:00 PM")
}
