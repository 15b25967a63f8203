package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"hospital-management/models"
)

var doctorColumns = []string{
	"id", "username", "email", "password_hash", "name",
	"specialty", "contact", "status", "registration_date",
}

type DoctorRepository struct {
	db *sql.DB
}

func NewDoctorRepository(db *sql.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func scanDoctor(row rowScanner) (*models.Doctor, error) {
	var d models.Doctor
	err := row.Scan(&d.ID, &d.Username, &d.Email, &d.PasswordHash, &d.Name,
		&d.Specialty, &d.Contact, &d.Status, &d.RegistrationDate)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) Create(ctx context.Context, d *models.Doctor) error {
	query, args, err := psql.Insert("doctors").
		Columns(doctorColumns...).
		Values(d.ID, d.Username, d.Email, d.PasswordHash, d.Name,
			d.Specialty, d.Contact, d.Status, d.RegistrationDate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert doctor: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return translate(err, "insert doctor")
}

func (r *DoctorRepository) getOne(ctx context.Context, where sq.Eq, op string) (*models.Doctor, error) {
	query, args, err := psql.Select(doctorColumns...).From("doctors").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	d, err := scanDoctor(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translate(err, op)
	}
	return d, nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, "get doctor by id")
}

func (r *DoctorRepository) GetByUsername(ctx context.Context, username string) (*models.Doctor, error) {
	return r.getOne(ctx, sq.Eq{"username": username}, "get doctor by username")
}

// ExistsByUsernameOrEmail checks every doctor regardless of status.
func (r *DoctorRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM doctors WHERE username = $1 OR email = $2)`,
		username, email).Scan(&exists)
	if err != nil {
		return false, translate(err, "check doctor identity")
	}
	return exists, nil
}

// List returns doctors newest first. An empty status returns all of them.
func (r *DoctorRepository) List(ctx context.Context, status models.DoctorStatus) ([]models.Doctor, error) {
	builder := psql.Select(doctorColumns...).From("doctors").OrderBy("registration_date DESC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list doctors: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list doctors")
	}
	defer rows.Close()

	doctors := []models.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, translate(err, "scan doctor")
		}
		doctors = append(doctors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "iterate doctors")
	}
	return doctors, nil
}

// TransitionStatus moves a doctor from one status to another. It returns
// ErrNotFound when no doctor with that id currently has the from status.
func (r *DoctorRepository) TransitionStatus(ctx context.Context, id string, from, to models.DoctorStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE doctors SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return translate(err, "update doctor status")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return translate(err, "update doctor status")
	}
	if n == 0 {
		return fmt.Errorf("update doctor status %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteWithPatients removes a doctor and every patient it owns in one
// transaction, dependents first. It reports how many patients were removed.
func (r *DoctorRepository) DeleteWithPatients(ctx context.Context, id string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, translate(err, "begin cascade delete")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE doctor_id = $1`, id)
	if err != nil {
		return 0, translate(err, "delete doctor patients")
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err, "delete doctor patients")
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return 0, translate(err, "delete doctor")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err, "delete doctor")
	}
	if n == 0 {
		return 0, fmt.Errorf("delete doctor %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, translate(err, "commit cascade delete")
	}
	return removed, nil
}

func (r *DoctorRepository) Count(ctx context.Context) (models.DoctorCounts, error) {
	var counts models.DoctorCounts

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM doctors GROUP BY status`)
	if err != nil {
		return counts, translate(err, "count doctors")
	}
	defer rows.Close()

	for rows.Next() {
		var status models.DoctorStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, translate(err, "scan doctor count")
		}
		switch status {
		case models.DoctorPending:
			counts.Pending = n
		case models.DoctorApproved:
			counts.Approved = n
		}
		counts.Total += n
	}
	if err := rows.Err(); err != nil {
		return counts, translate(err, "iterate doctor counts")
	}
	return counts, nil
}
