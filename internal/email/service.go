package email

import (
	"context"
	"fmt"

	"github.com/go-gomail/gomail"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/model"
)

// Service notifies patients about their appointments.
type Service interface {
	SendAppointmentEmail(ctx context.Context, eventType string, event model.AppointmentEvent) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPService struct {
	sender sender
	from   string
}

// NewService returns an SMTP notifier, or a no-op one when no SMTP host is
// configured.
func NewService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled() {
		return Nop{}
	}
	return &SMTPService{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPService) SendAppointmentEmail(ctx context.Context, eventType string, event model.AppointmentEvent) error {
	if event.PatientEmail == "" {
		return nil
	}
	subject, body, ok := compose(eventType, event)
	if !ok {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", event.PatientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func compose(eventType string, e model.AppointmentEvent) (string, string, bool) {
	when := fmt.Sprintf("%s at %s", e.AppointmentDate, e.AppointmentTime.Display())

	var subject, line string
	switch eventType {
	case model.EventAppointmentBooked:
		subject = "Appointment request received"
		line = fmt.Sprintf("your appointment with %s on %s has been booked and is awaiting confirmation.", e.DoctorName, when)
	case model.EventAppointmentConfirmed:
		subject = "Appointment confirmed"
		line = fmt.Sprintf("your appointment with %s on %s is confirmed.", e.DoctorName, when)
	case model.EventAppointmentCancelled:
		subject = "Appointment cancelled"
		line = fmt.Sprintf("your appointment with %s on %s has been cancelled.", e.DoctorName, when)
	case model.EventAppointmentCompleted:
		subject = "Appointment completed"
		line = fmt.Sprintf("your appointment with %s on %s is complete. Thank you for visiting.", e.DoctorName, when)
	default:
		return "", "", false
	}
	return subject, fmt.Sprintf("Hello %s,\n\n%s\n", e.PatientName, line), true
}

// Nop drops every notification.
type Nop struct{}

func (Nop) SendAppointmentEmail(context.Context, string, model.AppointmentEvent) error { return nil }
