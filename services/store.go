package services

import (
	"context"
	"time"

	"hospital-management/models"
	"hospital-management/repository"
)

// DoctorStore is the doctor half of the record store. It is satisfied by
// repository.DoctorRepository and reports misses with repository.ErrNotFound.
type DoctorStore interface {
	Create(ctx context.Context, d *models.Doctor) error
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	GetByUsername(ctx context.Context, username string) (*models.Doctor, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, status models.DoctorStatus) ([]models.Doctor, error)
	TransitionStatus(ctx context.Context, id string, from, to models.DoctorStatus) error
	DeleteWithPatients(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (models.DoctorCounts, error)
}

// PatientStore is satisfied by repository.PatientRepository.
type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	List(ctx context.Context, filter models.PatientFilter) ([]models.Patient, error)
	Count(ctx context.Context, filter models.PatientFilter) (int, error)
	Update(ctx context.Context, id, doctorID string, changes models.PatientChanges, at time.Time) (*models.Patient, error)
	Delete(ctx context.Context, id, doctorID string) error
}

var (
	_ DoctorStore  = (*repository.DoctorRepository)(nil)
	_ PatientStore = (*repository.PatientRepository)(nil)
)
