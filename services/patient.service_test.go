package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hospital-management/models"
)

func TestCreatePatientTakesOwnerFromSession(t *testing.T) {
	f := newFixture(t)
	d1 := f.approvedSession(t, "dr1")
	d2 := f.approvedSession(t, "dr2")

	p, err := f.patients.Create(ctx, d1, models.Patient{
		ID:       "chosen-by-client",
		DoctorID: d2.UserID,
		Name:     "Jane",
		Age:      30,
	})
	require.NoError(t, err)

	assert.NotEqual(t, "chosen-by-client", p.ID)
	assert.Equal(t, d1.UserID, p.DoctorID)
	assert.False(t, p.CreatedDate.IsZero())
	assert.Equal(t, p.CreatedDate, p.UpdatedDate)
}

func TestCreatePatientValidation(t *testing.T) {
	f := newFixture(t)
	d := f.approvedSession(t, "dr1")

	_, err := f.patients.Create(ctx, d, models.Patient{Name: "", Age: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.patients.Create(ctx, d, models.Patient{Name: "Jane", Age: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPatientListsAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	d1 := f.approvedSession(t, "dr1")
	d2 := f.approvedSession(t, "dr2")

	mine := f.addPatient(t, d1, "Jane")
	f.addPatient(t, d2, "John")

	list, err := f.patients.List(ctx, d1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = f.patients.List(ctx, d2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEqual(t, mine.ID, list[0].ID)
}

func TestForeignPatientIsNotAuthorized(t *testing.T) {
	f := newFixture(t)
	d1 := f.approvedSession(t, "dr1")
	d2 := f.approvedSession(t, "dr2")
	p := f.addPatient(t, d1, "Jane")

	_, err := f.patients.Get(ctx, d2, p.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	name := "Mallory"
	_, err = f.patients.Update(ctx, d2, p.ID, models.PatientChanges{Name: &name})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	assert.ErrorIs(t, f.patients.Delete(ctx, d2, p.ID), ErrNotAuthorized)

	got, err := f.patients.Get(ctx, d1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
}

func TestPatientServiceRejectsAdminSession(t *testing.T) {
	f := newFixture(t)
	admin := f.adminSession(t)

	_, err := f.patients.List(ctx, admin)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = f.patients.Create(ctx, admin, models.Patient{Name: "Jane"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = f.patients.Stats(ctx, nil)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestUnknownPatientIsNotFound(t *testing.T) {
	f := newFixture(t)
	d := f.approvedSession(t, "dr1")

	_, err := f.patients.Get(ctx, d, "9b2d7c1e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.patients.Get(ctx, d, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.patients.Delete(ctx, d, "not-a-uuid"), ErrNotFound)
}

func TestUpdatePatient(t *testing.T) {
	f := newFixture(t)
	d := f.approvedSession(t, "dr1")
	p := f.addPatient(t, d, "Jane")

	later := p.CreatedDate.Add(time.Hour)
	f.patients.now = func() time.Time { return later }

	diagnosis := "flu"
	age := 31
	updated, err := f.patients.Update(ctx, d, p.ID, models.PatientChanges{Diagnosis: &diagnosis, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "flu", updated.Diagnosis)
	assert.Equal(t, 31, updated.Age)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, d.UserID, updated.DoctorID)
	assert.Equal(t, later, updated.UpdatedDate)

	same, err := f.patients.Update(ctx, d, p.ID, models.PatientChanges{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	negative := -4
	_, err = f.patients.Update(ctx, d, p.ID, models.PatientChanges{Age: &negative})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeletePatient(t *testing.T) {
	f := newFixture(t)
	d := f.approvedSession(t, "dr1")
	p := f.addPatient(t, d, "Jane")

	require.NoError(t, f.patients.Delete(ctx, d, p.ID))

	_, err := f.patients.Get(ctx, d, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.patients.Delete(ctx, d, p.ID), ErrNotFound)
}

func TestPatientStats(t *testing.T) {
	f := newFixture(t)
	d := f.approvedSession(t, "dr1")
	other := f.approvedSession(t, "dr2")

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	f.patients.now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	f.addPatient(t, d, "Old")
	f.patients.now = func() time.Time { return now.Add(-2 * 24 * time.Hour) }
	f.addPatient(t, d, "New")
	f.addPatient(t, other, "Elsewhere")
	f.patients.now = func() time.Time { return now }

	counts, err := f.patients.Stats(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, models.PatientCounts{Total: 2, Recent: 1}, counts)
}
