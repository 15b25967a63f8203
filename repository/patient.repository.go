package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"hospital-management/models"
)

var patientColumns = []string{
	"id", "doctor_id", "name", "age", "gender", "contact",
	"medical_history", "diagnosis", "treatment", "prescriptions",
	"created_date", "updated_date",
}

type PatientRepository struct {
	db *sql.DB
}

func NewPatientRepository(db *sql.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func scanPatient(row rowScanner) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(&p.ID, &p.DoctorID, &p.Name, &p.Age, &p.Gender, &p.Contact,
		&p.MedicalHistory, &p.Diagnosis, &p.Treatment, &p.Prescriptions,
		&p.CreatedDate, &p.UpdatedDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func filterPatients(b sq.SelectBuilder, f models.PatientFilter) sq.SelectBuilder {
	if f.DoctorID != "" {
		b = b.Where(sq.Eq{"doctor_id": f.DoctorID})
	}
	if !f.CreatedAfter.IsZero() {
		b = b.Where(sq.Gt{"created_date": f.CreatedAfter})
	}
	return b
}

func (r *PatientRepository) Create(ctx context.Context, p *models.Patient) error {
	query, args, err := psql.Insert("patients").
		Columns(patientColumns...).
		Values(p.ID, p.DoctorID, p.Name, p.Age, p.Gender, p.Contact,
			p.MedicalHistory, p.Diagnosis, p.Treatment, p.Prescriptions,
			p.CreatedDate, p.UpdatedDate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert patient: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return translate(err, "insert patient")
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	query, args, err := psql.Select(patientColumns...).From("patients").
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get patient: %w", err)
	}

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get patient")
	}
	return p, nil
}

// List returns patients newest first.
func (r *PatientRepository) List(ctx context.Context, filter models.PatientFilter) ([]models.Patient, error) {
	query, args, err := filterPatients(
		psql.Select(patientColumns...).From("patients"), filter,
	).OrderBy("created_date DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list patients: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list patients")
	}
	defer rows.Close()

	patients := []models.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, translate(err, "scan patient")
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "iterate patients")
	}
	return patients, nil
}

func (r *PatientRepository) Count(ctx context.Context, filter models.PatientFilter) (int, error) {
	query, args, err := filterPatients(
		psql.Select("COUNT(*)").From("patients"), filter,
	).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count patients: %w", err)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, translate(err, "count patients")
	}
	return n, nil
}

// Update applies changes to a patient owned by doctorID and returns the
// stored row. A patient with another owner is reported as ErrNotFound.
func (r *PatientRepository) Update(ctx context.Context, id, doctorID string, changes models.PatientChanges, at time.Time) (*models.Patient, error) {
	set := map[string]interface{}{"updated_date": at}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Age != nil {
		set["age"] = *changes.Age
	}
	if changes.Gender != nil {
		set["gender"] = *changes.Gender
	}
	if changes.Contact != nil {
		set["contact"] = *changes.Contact
	}
	if changes.MedicalHistory != nil {
		set["medical_history"] = *changes.MedicalHistory
	}
	if changes.Diagnosis != nil {
		set["diagnosis"] = *changes.Diagnosis
	}
	if changes.Treatment != nil {
		set["treatment"] = *changes.Treatment
	}
	if changes.Prescriptions != nil {
		set["prescriptions"] = *changes.Prescriptions
	}

	query, args, err := psql.Update("patients").
		SetMap(set).
		Where(sq.Eq{"id": id, "doctor_id": doctorID}).
		Suffix("RETURNING " + strings.Join(patientColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update patient: %w", err)
	}

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "update patient")
	}
	return p, nil
}

// Delete removes a patient owned by doctorID.
func (r *PatientRepository) Delete(ctx context.Context, id, doctorID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM patients WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return translate(err, "delete patient")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete patient")
	}
	if n == 0 {
		return fmt.Errorf("delete patient %s: %w", id, ErrNotFound)
	}
	return nil
}
