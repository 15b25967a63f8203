package models

import (
	"time"
)

type Patient struct {
	ID             string    `json:"id" db:"id"`
	DoctorID       string    `json:"doctor_id" db:"doctor_id"`
	Name           string    `json:"name" db:"name"`
	Age            int       `json:"age" db:"age"`
	Gender         string    `json:"gender" db:"gender"`
	Contact        string    `json:"contact" db:"contact"`
	MedicalHistory string    `json:"medical_history" db:"medical_history"`
	Diagnosis      string    `json:"diagnosis" db:"diagnosis"`
	Treatment      string    `json:"treatment" db:"treatment"`
	Prescriptions  string    `json:"prescriptions" db:"prescriptions"`
	CreatedDate    time.Time `json:"created_date" db:"created_date"`
	UpdatedDate    time.Time `json:"updated_date" db:"updated_date"`
}

// PatientChanges holds the fields of a partial patient update. Nil fields
// are left untouched. The owning doctor can never be changed.
type PatientChanges struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Age            *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender         *string `json:"gender" binding:"omitempty,max=20"`
	Contact        *string `json:"contact" binding:"omitempty,max=50"`
	MedicalHistory *string `json:"medical_history"`
	Diagnosis      *string `json:"diagnosis"`
	Treatment      *string `json:"treatment"`
	Prescriptions  *string `json:"prescriptions"`
}

func (c PatientChanges) Empty() bool {
	return c.Name == nil && c.Age == nil && c.Gender == nil && c.Contact == nil &&
		c.MedicalHistory == nil && c.Diagnosis == nil && c.Treatment == nil && c.Prescriptions == nil
}

// Apply copies the non-nil fields onto p.
func (c PatientChanges) Apply(p *Patient) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Age != nil {
		p.Age = *c.Age
	}
	if c.Gender != nil {
		p.Gender = *c.Gender
	}
	if c.Contact != nil {
		p.Contact = *c.Contact
	}
	if c.MedicalHistory != nil {
		p.MedicalHistory = *c.MedicalHistory
	}
	if c.Diagnosis != nil {
		p.Diagnosis = *c.Diagnosis
	}
	if c.Treatment != nil {
		p.Treatment = *c.Treatment
	}
	if c.Prescriptions != nil {
		p.Prescriptions = *c.Prescriptions
	}
}

// PatientFilter narrows patient lists and counts. Zero values match everything.
type PatientFilter struct {
	DoctorID     string
	CreatedAfter time.Time
}

type PatientCounts struct {
	Total  int `json:"total"`
	Recent int `json:"recent"`
}
