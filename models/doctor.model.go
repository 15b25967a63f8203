package models

import (
	"time"
)

type DoctorStatus string

const (
	DoctorPending  DoctorStatus = "pending"
	DoctorApproved DoctorStatus = "approved"
)

func (s DoctorStatus) Valid() bool {
	return s == DoctorPending || s == DoctorApproved
}

// Doctor is a self-registered practitioner. Rejected or removed doctors
// are deleted rather than kept in a third status.
type Doctor struct {
	ID               string       `json:"id" db:"id"`
	Username         string       `json:"username" db:"username"`
	Email            string       `json:"email" db:"email"`
	PasswordHash     string       `json:"-" db:"password_hash"`
	Name             string       `json:"name" db:"name"`
	Specialty        string       `json:"specialty" db:"specialty"`
	Contact          string       `json:"contact" db:"contact"`
	Status           DoctorStatus `json:"status" db:"status"`
	RegistrationDate time.Time    `json:"registration_date" db:"registration_date"`
}

// DoctorCounts backs the admin dashboard cards.
type DoctorCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Total    int `json:"total"`
}
