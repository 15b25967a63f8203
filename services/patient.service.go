package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"hospital-management/models"
	"hospital-management/security"
)

// Patients created within this window count as recent on the dashboard.
const recentWindow = 7 * 24 * time.Hour

// PatientService gives a doctor access to the patients it owns and nothing
// else. Every method takes the caller's session.
type PatientService struct {
	patients PatientStore
	now      func() time.Time
}

func NewPatientService(patients PatientStore) *PatientService {
	return &PatientService{patients: patients, now: time.Now}
}

func (s *PatientService) List(ctx context.Context, session *security.Session) ([]models.Patient, error) {
	if err := requireRole(session, security.RoleDoctor); err != nil {
		return nil, err
	}

	patients, err := s.patients.List(ctx, models.PatientFilter{DoctorID: session.UserID})
	if err != nil {
		return nil, storeError(err, "list patients")
	}
	return patients, nil
}

// owned loads a patient and checks that the session's doctor owns it.
func (s *PatientService) owned(ctx context.Context, session *security.Session, id string) (*models.Patient, error) {
	if err := requireRole(session, security.RoleDoctor); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("patient %q: %w", id, ErrNotFound)
	}

	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "get patient")
	}
	if patient.DoctorID != session.UserID {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotAuthorized)
	}
	return patient, nil
}

func (s *PatientService) Get(ctx context.Context, session *security.Session, id string) (*models.Patient, error) {
	return s.owned(ctx, session, id)
}

// Create stores a new patient owned by the session's doctor. Any id or
// owner set on p is ignored.
func (s *PatientService) Create(ctx context.Context, session *security.Session, p models.Patient) (*models.Patient, error) {
	if err := requireRole(session, security.RoleDoctor); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalidInput)
	}
	if p.Age < 0 {
		return nil, fmt.Errorf("%w: age must not be negative", ErrInvalidInput)
	}

	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.DoctorID = session.UserID
	p.CreatedDate = now
	p.UpdatedDate = now

	if err := s.patients.Create(ctx, &p); err != nil {
		return nil, storeError(err, "create patient")
	}
	return &p, nil
}

func (s *PatientService) Update(ctx context.Context, session *security.Session, id string, changes models.PatientChanges) (*models.Patient, error) {
	current, err := s.owned(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if changes.Age != nil && *changes.Age < 0 {
		return nil, fmt.Errorf("%w: age must not be negative", ErrInvalidInput)
	}
	if changes.Name != nil && *changes.Name == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalidInput)
	}
	if changes.Empty() {
		return current, nil
	}

	updated, err := s.patients.Update(ctx, id, session.UserID, changes, s.now().UTC())
	if err != nil {
		return nil, storeError(err, "update patient")
	}
	return updated, nil
}

func (s *PatientService) Delete(ctx context.Context, session *security.Session, id string) error {
	if _, err := s.owned(ctx, session, id); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id, session.UserID); err != nil {
		return storeError(err, "delete patient")
	}
	return nil
}

// Stats counts the doctor's patients and those added in the last week.
func (s *PatientService) Stats(ctx context.Context, session *security.Session) (models.PatientCounts, error) {
	var counts models.PatientCounts
	if err := requireRole(session, security.RoleDoctor); err != nil {
		return counts, err
	}

	total, err := s.patients.Count(ctx, models.PatientFilter{DoctorID: session.UserID})
	if err != nil {
		return counts, storeError(err, "count patients")
	}
	recent, err := s.patients.Count(ctx, models.PatientFilter{
		DoctorID:     session.UserID,
		CreatedAfter: s.now().UTC().Add(-recentWindow),
	})
	if err != nil {
		return counts, storeError(err, "count recent patients")
	}

	counts.Total = total
	counts.Recent = recent
	return counts, nil
}
