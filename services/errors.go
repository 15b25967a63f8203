package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"hospital-management/repository"
	"hospital-management/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrStoreUnavailable   = errors.New("record store unavailable")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidInput       = errors.New("invalid input")
)

// storeError maps a repository error onto the service taxonomy.
func storeError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrDuplicateIdentity)
	default:
		log.Printf("%s: %v", op, err)
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
}

func requireRole(s *security.Session, role security.Role) error {
	if !s.Is(role) {
		return ErrNotAuthorized
	}
	return nil
}

// Record ids are UUIDs. Anything else cannot name a stored record.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
