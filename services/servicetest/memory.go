// Package servicetest provides an in-memory record store with the
// semantics of the PostgreSQL repositories, for tests of the services and
// the HTTP layer.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hospital-management/models"
	"hospital-management/repository"
)

// DB holds both tables. Its doctor and patient stores share state so the
// cascade delete and the doctor foreign key behave as in PostgreSQL.
type DB struct {
	mu       sync.Mutex
	doctors  map[string]models.Doctor
	patients map[string]models.Patient
	fail     error
}

func New() *DB {
	return &DB{
		doctors:  make(map[string]models.Doctor),
		patients: make(map[string]models.Patient),
	}
}

// FailWith makes every following call return err, leaving the data
// untouched. A nil err restores normal operation.
func (db *DB) FailWith(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail = err
}

func (db *DB) Doctors() *DoctorStore {
	return &DoctorStore{db: db}
}

func (db *DB) Patients() *PatientStore {
	return &PatientStore{db: db}
}

// lock acquires the mutex and reports the injected failure, if any.
func (db *DB) lock() error {
	db.mu.Lock()
	if db.fail != nil {
		err := db.fail
		db.mu.Unlock()
		return err
	}
	return nil
}

type DoctorStore struct {
	db *DB
}

func (s *DoctorStore) Create(_ context.Context, d *models.Doctor) error {
	if err := s.db.lock(); err != nil {
		return err
	}
	defer s.db.mu.Unlock()

	for _, other := range s.db.doctors {
		if other.ID == d.ID || other.Username == d.Username || other.Email == d.Email {
			return fmt.Errorf("insert doctor: %w", repository.ErrDuplicate)
		}
	}
	s.db.doctors[d.ID] = *d
	return nil
}

func (s *DoctorStore) GetByID(_ context.Context, id string) (*models.Doctor, error) {
	if err := s.db.lock(); err != nil {
		return nil, err
	}
	defer s.db.mu.Unlock()

	d, ok := s.db.doctors[id]
	if !ok {
		return nil, fmt.Errorf("get doctor by id: %w", repository.ErrNotFound)
	}
	return &d, nil
}

func (s *DoctorStore) GetByUsername(_ context.Context, username string) (*models.Doctor, error) {
	if err := s.db.lock(); err != nil {
		return nil, err
	}
	defer s.db.mu.Unlock()

	for _, d := range s.db.doctors {
		if d.Username == username {
			d := d
			return &d, nil
		}
	}
	return nil, fmt.Errorf("get doctor by username: %w", repository.ErrNotFound)
}

func (s *DoctorStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	if err := s.db.lock(); err != nil {
		return false, err
	}
	defer s.db.mu.Unlock()

	for _, d := range s.db.doctors {
		if d.Username == username || d.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *DoctorStore) List(_ context.Context, status models.DoctorStatus) ([]models.Doctor, error) {
	if err := s.db.lock(); err != nil {
		return nil, err
	}
	defer s.db.mu.Unlock()

	doctors := []models.Doctor{}
	for _, d := range s.db.doctors {
		if status == "" || d.Status == status {
			doctors = append(doctors, d)
		}
	}
	sort.Slice(doctors, func(i, j int) bool {
		return newerFirst(doctors[i].RegistrationDate, doctors[j].RegistrationDate, doctors[i].ID, doctors[j].ID)
	})
	return doctors, nil
}

func (s *DoctorStore) TransitionStatus(_ context.Context, id string, from, to models.DoctorStatus) error {
	if err := s.db.lock(); err != nil {
		return err
	}
	defer s.db.mu.Unlock()

	d, ok := s.db.doctors[id]
	if !ok || d.Status != from {
		return fmt.Errorf("update doctor status %s: %w", id, repository.ErrNotFound)
	}
	d.Status = to
	s.db.doctors[id] = d
	return nil
}

func (s *DoctorStore) DeleteWithPatients(_ context.Context, id string) (int64, error) {
	if err := s.db.lock(); err != nil {
		return 0, err
	}
	defer s.db.mu.Unlock()

	if _, ok := s.db.doctors[id]; !ok {
		return 0, fmt.Errorf("delete doctor %s: %w", id, repository.ErrNotFound)
	}

	var removed int64
	for pid, p := range s.db.patients {
		if p.DoctorID == id {
			delete(s.db.patients, pid)
			removed++
		}
	}
	delete(s.db.doctors, id)
	return removed, nil
}

func (s *DoctorStore) Count(_ context.Context) (models.DoctorCounts, error) {
	var counts models.DoctorCounts
	if err := s.db.lock(); err != nil {
		return counts, err
	}
	defer s.db.mu.Unlock()

	for _, d := range s.db.doctors {
		switch d.Status {
		case models.DoctorPending:
			counts.Pending++
		case models.DoctorApproved:
			counts.Approved++
		}
		counts.Total++
	}
	return counts, nil
}

type PatientStore struct {
	db *DB
}

func (s *PatientStore) Create(_ context.Context, p *models.Patient) error {
	if err := s.db.lock(); err != nil {
		return err
	}
	defer s.db.mu.Unlock()

	if _, ok := s.db.doctors[p.DoctorID]; !ok {
		return fmt.Errorf("insert patient: %w", repository.ErrNotFound)
	}
	if _, ok := s.db.patients[p.ID]; ok {
		return fmt.Errorf("insert patient: %w", repository.ErrDuplicate)
	}
	s.db.patients[p.ID] = *p
	return nil
}

func (s *PatientStore) GetByID(_ context.Context, id string) (*models.Patient, error) {
	if err := s.db.lock(); err != nil {
		return nil, err
	}
	defer s.db.mu.Unlock()

	p, ok := s.db.patients[id]
	if !ok {
		return nil, fmt.Errorf("get patient: %w", repository.ErrNotFound)
	}
	return &p, nil
}

func matches(p models.Patient, f models.PatientFilter) bool {
	if f.DoctorID != "" && p.DoctorID != f.DoctorID {
		return false
	}
	if !f.CreatedAfter.IsZero() && !p.CreatedDate.After(f.CreatedAfter) {
		return false
	}
	return true
}

func (s *PatientStore) List(_ context.Context, filter models.PatientFilter) ([]models.Patient, error) {
	if err := s.db.lock(); err != nil {
		return nil, err
	}
	defer s.db.mu.Unlock()

	patients := []models.Patient{}
	for _, p := range s.db.patients {
		if matches(p, filter) {
			patients = append(patients, p)
		}
	}
	sort.Slice(patients, func(i, j int) bool {
		return newerFirst(patients[i].CreatedDate, patients[j].CreatedDate, patients[i].ID, patients[j].ID)
	})
	return patients, nil
}

func (s *PatientStore) Count(_ context.Context, filter models.PatientFilter) (int, error) {
	if err := s.db.lock(); err != nil {
		return 0, err
	}
	defer s.db.mu.Unlock()

	n := 0
	for _, p := range s.db.patients {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (s *PatientStore) Update(_ context.Context, id, doctorID string, changes models.PatientChanges, at time.Time) (*models.Patient, error) {
	if err := s.db.lock(); err != nil {
		return nil, err
	}
	defer s.db.mu.Unlock()

	p, ok := s.db.patients[id]
	if !ok || p.DoctorID != doctorID {
		return nil, fmt.Errorf("update patient: %w", repository.ErrNotFound)
	}
	changes.Apply(&p)
	p.UpdatedDate = at
	s.db.patients[id] = p
	return &p, nil
}

func (s *PatientStore) Delete(_ context.Context, id, doctorID string) error {
	if err := s.db.lock(); err != nil {
		return err
	}
	defer s.db.mu.Unlock()

	p, ok := s.db.patients[id]
	if !ok || p.DoctorID != doctorID {
		return fmt.Errorf("delete patient %s: %w", id, repository.ErrNotFound)
	}
	delete(s.db.patients, id)
	return nil
}

func newerFirst(a, b time.Time, aID, bID string) bool {
	if a.Equal(b) {
		return aID < bID
	}
	return a.After(b)
}
