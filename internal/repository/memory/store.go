// Package memory is an in-process implementation of the repositories. It
// enforces the same unique, foreign-key and cascade rules as the PostgreSQL
// schema so services behave identically on either driver.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type db struct {
	mu sync.RWMutex

	seq          map[string]int64
	doctors      map[int64]model.Doctor
	patients     map[int64]model.Patient
	timeSlots    map[int64]model.TimeSlot
	appointments map[int64]model.Appointment
	users        map[int64]model.User
	tokens       map[int64]model.AuthToken
	outbox       map[uuid.UUID]model.OutboxEvent

	now func() time.Time
}

func newDB() *db {
	return &db{
		seq:          map[string]int64{},
		doctors:      map[int64]model.Doctor{},
		patients:     map[int64]model.Patient{},
		timeSlots:    map[int64]model.TimeSlot{},
		appointments: map[int64]model.Appointment{},
		users:        map[int64]model.User{},
		tokens:       map[int64]model.AuthToken{},
		outbox:       map[uuid.UUID]model.OutboxEvent{},
		now:          time.Now,
	}
}

// NewStore returns repositories sharing one empty in-memory database.
func NewStore() *repository.Store {
	d := newDB()
	return &repository.Store{
		Doctors:      &doctorRepository{d},
		Patients:     &patientRepository{d},
		TimeSlots:    &timeSlotRepository{d},
		Appointments: &appointmentRepository{d},
		Users:        &userRepository{d},
		Tokens:       &tokenRepository{d},
		Outbox:       &outboxRepository{d},
		Stats:        &statsRepository{d},
		Health:       d,
	}
}

func (d *db) Ping(ctx context.Context) error {
	return ctx.Err()
}

// next must be called with mu held for writing.
func (d *db) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func window[T any](items []T, page model.Page) []T {
	start, end := page.Window(len(items))
	return items[start:end]
}

type doctorRepository struct{ *db }

func (r *doctorRepository) emailTaken(email string, except int64) bool {
	for id, d := range r.doctors {
		if id != except && d.Email == email {
			return true
		}
	}
	return false
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(doctor.Email, 0) {
		return repository.ErrConflict
	}
	doctor.ID = r.next("doctors")
	doctor.CreatedAt = r.now()
	doctor.UpdatedAt = doctor.CreatedAt
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.doctors[doctor.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(doctor.Email, doctor.ID) {
		return repository.ErrConflict
	}
	doctor.CreatedAt = existing.CreatedAt
	doctor.UpdatedAt = r.now()
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.doctors, id)
	for sid, slot := range r.timeSlots {
		if slot.DoctorID == id {
			delete(r.timeSlots, sid)
		}
	}
	for aid, apt := range r.appointments {
		if apt.DoctorID == id {
			delete(r.appointments, aid)
		}
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context, filter model.DoctorFilter, page model.Page) ([]*model.Doctor, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctors := []*model.Doctor{}
	for _, d := range r.doctors {
		if filter.Specialty != nil && d.Specialty != *filter.Specialty {
			continue
		}
		if filter.IsAvailable != nil && d.IsAvailable != *filter.IsAvailable {
			continue
		}
		if filter.Search != "" && !contains(d.Name, filter.Search) &&
			!contains(d.Email, filter.Search) && !contains(d.Phone, filter.Search) {
			continue
		}
		doctor := d
		doctors = append(doctors, &doctor)
	}
	sortDoctors(doctors)
	return window(doctors, page), len(doctors), nil
}

func (r *doctorRepository) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	available := true
	doctors, _, err := r.List(ctx, model.DoctorFilter{IsAvailable: &available}, model.Page{})
	return doctors, err
}

func sortDoctors(doctors []*model.Doctor) {
	sort.Slice(doctors, func(i, j int) bool {
		if doctors[i].Name != doctors[j].Name {
			return doctors[i].Name < doctors[j].Name
		}
		return doctors[i].ID < doctors[j].ID
	})
}

type patientRepository struct{ *db }

// checkPatient must be called with mu held.
func (r *patientRepository) checkPatient(p *model.Patient) error {
	if p.UserID == nil {
		return nil
	}
	if _, ok := r.users[*p.UserID]; !ok {
		return repository.ErrInvalidReference
	}
	for id, other := range r.patients {
		if id != p.ID && other.UserID != nil && *other.UserID == *p.UserID {
			return repository.ErrConflict
		}
	}
	return nil
}

// insert must be called with mu held for writing.
func (r *patientRepository) insert(p *model.Patient) error {
	if err := r.checkPatient(p); err != nil {
		return err
	}
	p.ID = r.next("patients")
	p.CreatedAt = r.now()
	p.UpdatedAt = p.CreatedAt
	r.patients[p.ID] = *p
	return nil
}

// byEmail must be called with mu held.
func (r *patientRepository) byEmail(email string) (*model.Patient, bool) {
	var found *model.Patient
	for _, p := range r.patients {
		if p.Email != email {
			continue
		}
		if found == nil || p.ID < found.ID {
			match := p
			found = &match
		}
	}
	return found, found != nil
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(patient)
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.byEmail(email)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.patients[patient.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkPatient(patient); err != nil {
		return err
	}
	patient.CreatedAt = existing.CreatedAt
	patient.UpdatedAt = r.now()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.patients, id)
	for aid, apt := range r.appointments {
		if apt.PatientID == id {
			delete(r.appointments, aid)
		}
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter model.PatientFilter, page model.Page) ([]*model.Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patients := []*model.Patient{}
	for _, p := range r.patients {
		if filter.Search != "" && !contains(p.FullName, filter.Search) &&
			!contains(p.Email, filter.Search) && !contains(p.Phone, filter.Search) {
			continue
		}
		patient := p
		patients = append(patients, &patient)
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].ID > patients[j].ID })
	return window(patients, page), len(patients), nil
}

type timeSlotRepository struct{ *db }

// checkSlot must be called with mu held.
func (r *timeSlotRepository) checkSlot(slot *model.TimeSlot) error {
	if _, ok := r.doctors[slot.DoctorID]; !ok {
		return repository.ErrInvalidReference
	}
	for id, other := range r.timeSlots {
		if id != slot.ID && other.DoctorID == slot.DoctorID && other.Time == slot.Time {
			return repository.ErrConflict
		}
	}
	return nil
}

func (r *timeSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkSlot(slot); err != nil {
		return err
	}
	slot.ID = r.next("time_slots")
	r.timeSlots[slot.ID] = *slot
	return nil
}

func (r *timeSlotRepository) Get(ctx context.Context, id int64) (*model.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.timeSlots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func (r *timeSlotRepository) Update(ctx context.Context, slot *model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timeSlots[slot.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := r.checkSlot(slot); err != nil {
		return err
	}
	r.timeSlots[slot.ID] = *slot
	return nil
}

func (r *timeSlotRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timeSlots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.timeSlots, id)
	return nil
}

func (r *timeSlotRepository) List(ctx context.Context, filter model.TimeSlotFilter, page model.Page) ([]*model.TimeSlot, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := []*model.TimeSlot{}
	for _, s := range r.timeSlots {
		if filter.DoctorID != nil && s.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.IsAvailable != nil && s.IsAvailable != *filter.IsAvailable {
			continue
		}
		slot := s
		slots = append(slots, &slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Time != slots[j].Time {
			return slots[i].Time < slots[j].Time
		}
		return slots[i].ID < slots[j].ID
	})
	return window(slots, page), len(slots), nil
}

type statsRepository struct{ *db }

func (r *statsRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &model.DashboardStats{
		TotalAppointments: len(r.appointments),
		TotalDoctors:      len(r.doctors),
		TotalPatients:     len(r.patients),
	}
	for _, apt := range r.appointments {
		switch apt.Status {
		case model.AppointmentStatusPending:
			stats.Pending++
		case model.AppointmentStatusConfirmed:
			stats.Confirmed++
		}
	}
	return stats, nil
}
