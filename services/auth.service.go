package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"hospital-management/models"
	"hospital-management/repository"
	"hospital-management/security"
)

const adminDisplayName = "Administrator"

// bcrypt cost for every hash this package produces. Lowered in tests.
var hashCost = bcrypt.DefaultCost

// AuthService checks credentials and issues, verifies and revokes sessions.
type AuthService struct {
	doctors   DoctorStore
	tokens    *security.TokenManager
	revoker   security.Revoker
	adminUser string
	adminHash []byte
	// compared against when a username is unknown
	dummyHash []byte
}

func NewAuthService(doctors DoctorStore, tokens *security.TokenManager, revoker security.Revoker, adminUser, adminPassword string) (*AuthService, error) {
	if adminUser == "" || adminPassword == "" {
		return nil, errors.New("admin credentials must not be empty")
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &AuthService{
		doctors:   doctors,
		tokens:    tokens,
		revoker:   revoker,
		adminUser: adminUser,
		adminHash: adminHash,
		dummyHash: dummyHash,
	}, nil
}

// LoginAdmin accepts only the configured admin pair.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (string, *security.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil
	if !userOK || !passOK {
		return "", nil, ErrInvalidCredentials
	}
	return s.issue(s.adminUser, security.RoleAdmin, adminDisplayName)
}

// LoginDoctor returns ErrInvalidCredentials for an unknown username, a wrong
// password and a doctor still pending approval alike.
func (s *AuthService) LoginDoctor(ctx context.Context, username, password string) (string, *security.Session, error) {
	doctor, err := s.doctors.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, storeError(err, "login doctor")
	}

	if bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if doctor.Status != models.DoctorApproved {
		return "", nil, ErrInvalidCredentials
	}

	return s.issue(doctor.ID, security.RoleDoctor, displayName(doctor))
}

func (s *AuthService) issue(userID string, role security.Role, name string) (string, *security.Session, error) {
	token, session, err := s.tokens.Issue(userID, role, name)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	return token, session, nil
}

// Logout revokes the session's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, session *security.Session) error {
	if session == nil {
		return ErrNotAuthorized
	}
	if err := s.revoker.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// VerifySession implements security.SessionVerifier. A doctor session stays
// valid only while the doctor exists and is approved.
func (s *AuthService) VerifySession(ctx context.Context, session *security.Session) error {
	switch session.Role {
	case security.RoleAdmin:
		if session.UserID != s.adminUser {
			return fmt.Errorf("admin %s: %w", session.UserID, security.ErrSessionGone)
		}
		return nil
	case security.RoleDoctor:
		doctor, err := s.doctors.GetByID(ctx, session.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("doctor %s: %w", session.UserID, security.ErrSessionGone)
		}
		if err != nil {
			return storeError(err, "verify doctor session")
		}
		if doctor.Status != models.DoctorApproved {
			return fmt.Errorf("doctor %s is %s: %w", doctor.ID, doctor.Status, security.ErrSessionGone)
		}
		return nil
	default:
		return fmt.Errorf("role %q: %w", session.Role, security.ErrSessionGone)
	}
}

func displayName(d *models.Doctor) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Username
}
