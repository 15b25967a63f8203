package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hospital-management/security"
)

func TestLoginAdmin(t *testing.T) {
	f := newFixture(t)

	token, session, err := f.auth.LoginAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, security.RoleAdmin, session.Role)
	assert.Equal(t, "admin", session.UserID)
	assert.Equal(t, adminDisplayName, session.Name)

	for _, c := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", "admin123"},
		{"", ""},
	} {
		_, _, err := f.auth.LoginAdmin(ctx, c.user, c.pass)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "user=%q", c.user)
	}
}

func TestNewAuthServiceRequiresAdminCredentials(t *testing.T) {
	_, err := NewAuthService(nil, nil, nil, "admin", "")
	assert.Error(t, err)
}

func TestPendingDoctorCannotLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "drp")

	_, _, err := f.auth.LoginDoctor(ctx, "drp", "pw-drp")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDoctorLoginFailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	f.approvedSession(t, "dra")
	f.register(t, "drp")

	_, _, unknown := f.auth.LoginDoctor(ctx, "nobody", "pw")
	_, _, wrongPass := f.auth.LoginDoctor(ctx, "dra", "nope")
	_, _, pending := f.auth.LoginDoctor(ctx, "drp", "pw-drp")

	for _, err := range []error{unknown, wrongPass, pending} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
	}
}

func TestApprovedDoctorLogin(t *testing.T) {
	f := newFixture(t)
	doctor := f.register(t, "drx")
	_, err := f.admin.Approve(ctx, f.adminSession(t), doctor.ID)
	require.NoError(t, err)

	token, session, err := f.auth.LoginDoctor(ctx, "drx", "pw-drx")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, doctor.ID, session.UserID)
	assert.Equal(t, security.RoleDoctor, session.Role)
	assert.Equal(t, "Dr. drx", session.Name)
}

func TestLoginDoctorStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.db.FailWith(errors.New("connection refused"))

	_, _, err := f.auth.LoginDoctor(ctx, "drx", "pw")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestVerifySession(t *testing.T) {
	f := newFixture(t)
	admin := f.adminSession(t)
	doctor := f.approvedSession(t, "drv")

	assert.NoError(t, f.auth.VerifySession(ctx, admin))
	assert.NoError(t, f.auth.VerifySession(ctx, doctor))

	forged := *admin
	forged.UserID = "someone-else"
	assert.ErrorIs(t, f.auth.VerifySession(ctx, &forged), security.ErrSessionGone)

	_, err := f.admin.Delete(ctx, admin, doctor.UserID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.auth.VerifySession(ctx, doctor), security.ErrSessionGone)

	f.db.FailWith(errors.New("connection refused"))
	err = f.auth.VerifySession(ctx, doctor)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, security.ErrSessionGone)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	session := f.adminSession(t)

	require.NoError(t, f.auth.Logout(ctx, session))

	revoked, err := f.revoker.IsRevoked(ctx, session.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.auth.Logout(ctx, nil), ErrNotAuthorized)
}
