package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"hospital-management/models"
	"hospital-management/security"
)

// bcrypt only hashes the first 72 bytes of a password.
const maxPasswordBytes = 72

// Registration is a doctor's self-submitted profile and credentials.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Name      string
	Specialty string
	Contact   string
}

type DoctorService struct {
	doctors DoctorStore
	now     func() time.Time
}

func NewDoctorService(doctors DoctorStore) *DoctorService {
	return &DoctorService{doctors: doctors, now: time.Now}
}

// Register creates a pending doctor. The username and email must not be
// used by any doctor, whatever its status.
func (s *DoctorService) Register(ctx context.Context, reg Registration) (*models.Doctor, error) {
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	if len(reg.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	exists, err := s.doctors.ExistsByUsernameOrEmail(ctx, reg.Username, reg.Email)
	if err != nil {
		return nil, storeError(err, "check doctor identity")
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	doctor := &models.Doctor{
		ID:               uuid.NewString(),
		Username:         reg.Username,
		Email:            reg.Email,
		PasswordHash:     string(hash),
		Name:             reg.Name,
		Specialty:        reg.Specialty,
		Contact:          reg.Contact,
		Status:           models.DoctorPending,
		RegistrationDate: s.now().UTC(),
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		// the unique indexes catch registrations racing past the check above
		return nil, storeError(err, "register doctor")
	}
	return doctor, nil
}

// Profile returns the signed-in doctor's own record.
func (s *DoctorService) Profile(ctx context.Context, session *security.Session) (*models.Doctor, error) {
	if err := requireRole(session, security.RoleDoctor); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, storeError(err, "get doctor profile")
	}
	return doctor, nil
}
