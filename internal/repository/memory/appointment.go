package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type appointmentRepository struct{ *db }

// checkAppointment must be called with mu held.
func (r *appointmentRepository) checkAppointment(apt *model.Appointment) error {
	if _, ok := r.patients[apt.PatientID]; !ok {
		return repository.ErrInvalidReference
	}
	if _, ok := r.doctors[apt.DoctorID]; !ok {
		return repository.ErrInvalidReference
	}
	if r.slotTaken(apt) {
		return repository.ErrConflict
	}
	return nil
}

// slotTaken must be called with mu held. Only non-cancelled appointments
// hold a (doctor, date, time) slot.
func (r *appointmentRepository) slotTaken(apt *model.Appointment) bool {
	if apt.Status == model.AppointmentStatusCancelled {
		return false
	}
	for id, other := range r.appointments {
		if id == apt.ID || other.Status == model.AppointmentStatusCancelled {
			continue
		}
		if other.DoctorID == apt.DoctorID &&
			other.AppointmentDate.Equal(apt.AppointmentDate) &&
			other.AppointmentTime == apt.AppointmentTime {
			return true
		}
	}
	return false
}

// hydrate must be called with mu held.
func (r *appointmentRepository) hydrate(apt model.Appointment) *model.Appointment {
	if p, ok := r.patients[apt.PatientID]; ok {
		apt.SetPatient(&p)
	}
	if d, ok := r.doctors[apt.DoctorID]; ok {
		apt.SetDoctor(&d)
	}
	return &apt
}

func (r *appointmentRepository) Book(ctx context.Context, patient *model.Patient, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doctor, ok := r.doctors[apt.DoctorID]
	if !ok {
		return repository.ErrNotFound
	}

	if r.slotTaken(apt) {
		return repository.ErrConflict
	}

	patients := &patientRepository{r.db}
	if existing, ok := patients.byEmail(patient.Email); ok {
		*patient = *existing
	} else if err := patients.insert(patient); err != nil {
		return err
	}

	apt.SetPatient(patient)
	apt.SetDoctor(&doctor)

	apt.ID = r.next("appointments")
	apt.CreatedAt = r.now()
	apt.UpdatedAt = apt.CreatedAt
	r.appointments[apt.ID] = *apt
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apt, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.hydrate(apt), nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.appointments[apt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkAppointment(apt); err != nil {
		return err
	}
	apt.CreatedAt = existing.CreatedAt
	apt.UpdatedAt = r.now()
	r.appointments[apt.ID] = *apt
	*apt = *r.hydrate(*apt)
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.appointments[apt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Status = apt.Status
	existing.Notes = apt.Notes
	existing.Prescription = apt.Prescription
	if err := r.checkAppointment(&existing); err != nil {
		return err
	}
	existing.UpdatedAt = r.now()
	r.appointments[apt.ID] = existing
	apt.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter, page model.Page) ([]*model.Appointment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appointments := []*model.Appointment{}
	for _, apt := range r.appointments {
		if filter.PatientID != nil && apt.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && apt.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Status != nil && apt.Status != *filter.Status {
			continue
		}
		appointments = append(appointments, r.hydrate(apt))
	}
	sort.Slice(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if !a.AppointmentDate.Equal(b.AppointmentDate) {
			return a.AppointmentDate.After(b.AppointmentDate.Time)
		}
		if a.AppointmentTime != b.AppointmentTime {
			return a.AppointmentTime > b.AppointmentTime
		}
		return a.ID > b.ID
	})
	return window(appointments, page), len(appointments), nil
}

func (r *appointmentRepository) BookedTimes(ctx context.Context, doctorID int64, date model.Date) ([]model.TimeLabel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	times := []model.TimeLabel{}
	for _, apt := range r.appointments {
		if apt.DoctorID == doctorID && apt.AppointmentDate.Equal(date) && apt.Status.Blocking() {
			times = append(times, apt.AppointmentTime)
		}
	}
	return times, nil
}

type userRepository struct{ *db }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.users {
		if other.Username == user.Username {
			return repository.ErrConflict
		}
	}
	user.ID = r.next("users")
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type tokenRepository struct{ *db }

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID int64, candidate string) (*model.AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.tokens[userID]; ok {
		return &token, nil
	}
	if _, ok := r.users[userID]; !ok {
		return nil, repository.ErrInvalidReference
	}
	token := model.AuthToken{Key: candidate, UserID: userID, CreatedAt: r.now()}
	r.tokens[userID] = token
	return &token, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, token := range r.tokens {
		if token.Key == key {
			t := token
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tokens, userID)
	return nil
}

type outboxRepository struct{ *db }

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Status = model.OutboxStatusPending
	event.CreatedAt = r.now()
	event.UpdatedAt = event.CreatedAt
	r.outbox[event.ID] = *event
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := []*model.OutboxEvent{}
	for _, e := range r.outbox {
		if e.Status == model.OutboxStatusPending {
			event := e
			events = append(events, &event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.outbox[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := r.now()
	event.Status = status
	event.ErrorMessage = errMsg
	event.UpdatedAt = now
	switch status {
	case model.OutboxStatusFailed:
		event.RetryCount++
	case model.OutboxStatusProcessed:
		event.ProcessedAt = &now
	}
	r.outbox[id] = event
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, event := range r.outbox {
		if event.Status == model.OutboxStatusProcessed && event.ProcessedAt != nil && event.ProcessedAt.Before(before) {
			delete(r.outbox, id)
			deleted++
		}
	}
	return deleted, nil
}
