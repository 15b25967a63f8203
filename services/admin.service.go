package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"hospital-management/models"
	"hospital-management/repository"
	"hospital-management/security"
)

// AdminStats backs the admin dashboard cards.
type AdminStats struct {
	PendingDoctors  int `json:"pending_doctors"`
	ApprovedDoctors int `json:"approved_doctors"`
	TotalDoctors    int `json:"total_doctors"`
	TotalPatients   int `json:"total_patients"`
}

// AdminService moves doctors through the approval workflow and reads every
// record. All methods require an admin session.
type AdminService struct {
	doctors  DoctorStore
	patients PatientStore
}

func NewAdminService(doctors DoctorStore, patients PatientStore) *AdminService {
	return &AdminService{doctors: doctors, patients: patients}
}

// ListDoctors returns all doctors, or only those in status when it is set.
func (s *AdminService) ListDoctors(ctx context.Context, session *security.Session, status models.DoctorStatus) ([]models.Doctor, error) {
	if err := requireRole(session, security.RoleAdmin); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown doctor status %q", ErrInvalidInput, status)
	}

	doctors, err := s.doctors.List(ctx, status)
	if err != nil {
		return nil, storeError(err, "list doctors")
	}
	return doctors, nil
}

// Approve moves a pending doctor to approved.
func (s *AdminService) Approve(ctx context.Context, session *security.Session, id string) (*models.Doctor, error) {
	if err := requireRole(session, security.RoleAdmin); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("doctor %q: %w", id, ErrNotFound)
	}

	err := s.doctors.TransitionStatus(ctx, id, models.DoctorPending, models.DoctorApproved)
	if err != nil {
		err = storeError(err, "approve doctor")
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// no pending doctor with this id: either unknown or already approved
		_, getErr := s.doctors.GetByID(ctx, id)
		switch {
		case getErr == nil:
			return nil, fmt.Errorf("doctor %s is not pending: %w", id, ErrInvalidTransition)
		case errors.Is(getErr, repository.ErrNotFound):
			return nil, err
		default:
			return nil, storeError(getErr, "get doctor")
		}
	}

	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "get approved doctor")
	}
	log.Printf("doctor %s (%s) approved", doctor.ID, doctor.Username)
	return doctor, nil
}

// Reject removes a pending registration. Approved doctors are removed
// with Delete instead.
func (s *AdminService) Reject(ctx context.Context, session *security.Session, id string) error {
	if err := requireRole(session, security.RoleAdmin); err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("doctor %q: %w", id, ErrNotFound)
	}

	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "get doctor")
	}
	if doctor.Status != models.DoctorPending {
		return fmt.Errorf("doctor %s is %s: %w", id, doctor.Status, ErrInvalidTransition)
	}

	if _, err := s.doctors.DeleteWithPatients(ctx, id); err != nil {
		return storeError(err, "reject doctor")
	}
	log.Printf("doctor registration %s (%s) rejected", doctor.ID, doctor.Username)
	return nil
}

// Delete removes a doctor and all of its patients atomically. It returns
// the number of patients removed. Retrying after a committed delete
// reports ErrNotFound.
func (s *AdminService) Delete(ctx context.Context, session *security.Session, id string) (int64, error) {
	if err := requireRole(session, security.RoleAdmin); err != nil {
		return 0, err
	}
	if !validID(id) {
		return 0, fmt.Errorf("doctor %q: %w", id, ErrNotFound)
	}

	removed, err := s.doctors.DeleteWithPatients(ctx, id)
	if err != nil {
		return 0, storeError(err, "delete doctor")
	}
	log.Printf("doctor %s deleted with %d patients", id, removed)
	return removed, nil
}

// ListPatients returns every patient, or those of one doctor when doctorID
// is set.
func (s *AdminService) ListPatients(ctx context.Context, session *security.Session, doctorID string) ([]models.Patient, error) {
	if err := requireRole(session, security.RoleAdmin); err != nil {
		return nil, err
	}
	if doctorID != "" && !validID(doctorID) {
		return []models.Patient{}, nil
	}

	patients, err := s.patients.List(ctx, models.PatientFilter{DoctorID: doctorID})
	if err != nil {
		return nil, storeError(err, "list patients")
	}
	return patients, nil
}

func (s *AdminService) Stats(ctx context.Context, session *security.Session) (AdminStats, error) {
	var stats AdminStats
	if err := requireRole(session, security.RoleAdmin); err != nil {
		return stats, err
	}

	doctors, err := s.doctors.Count(ctx)
	if err != nil {
		return stats, storeError(err, "count doctors")
	}
	patients, err := s.patients.Count(ctx, models.PatientFilter{})
	if err != nil {
		return stats, storeError(err, "count patients")
	}

	stats.PendingDoctors = doctors.Pending
	stats.ApprovedDoctors = doctors.Approved
	stats.TotalDoctors = doctors.Total
	stats.TotalPatients = patients
	return stats, nil
}
