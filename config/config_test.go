package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load("")
	assert.EqualError(t, err, "JWT_ACCESS_SECRET not set")
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("DB_NAME", "hospital_test")

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "hospital_test", cfg.Database.DBName)
	assert.Error(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
server:
  port: "9000"
database:
  host: db.internal
  port: 6543
  user: hospital
  password: pw
  dbname: records
  sslmode: require
jwt:
  secret: from-file
  expiration: 30m
admin:
  username: root
  password: toor
cors:
  allow_origins: ["http://localhost:5173"]
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.Equal(t,
		"host=override.internal port=6543 user=hospital password=pw dbname=records sslmode=require",
		cfg.Database.DSN())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION", "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
