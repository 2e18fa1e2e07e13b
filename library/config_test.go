package library

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv(mapLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, DefaultLoanPeriod, cfg.LoanPeriod())
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"LIBRARY_BACKEND=sqlite",
		"LIBRARY_DB_FILE=/tmp/lib.db",
		"LIBRARY_LOAN_DAYS=14",
		"LIBRARY_LOG_LEVEL=debug",
		"LIBRARY_BOOKS_FILE=",
	}, "\n")), 0o644))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	cfg, err := ConfigFromEnv(mapLookup(env))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/lib.db", cfg.DBFile)
	assert.Equal(t, 14*24*time.Hour, cfg.LoanPeriod())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "books.txt", cfg.BooksFile, "blank values keep the default")
}

func TestConfigFromEnv_BadLoanDays(t *testing.T) {
	_, err := ConfigFromEnv(mapLookup(map[string]string{EnvLoanDays: "two"}))
	assert.ErrorContains(t, err, EnvLoanDays)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LoanDays = 0
	assert.Error(t, cfg.Validate())

	_, err := cfg.Open()
	assert.Error(t, err)
}

func TestLoadEnvFiles_MissingIgnored(t *testing.T) {
	assert.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env")))
}

func TestConfigOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.BooksFile = filepath.Join(dir, "books.txt")
	cfg.MembersFile = filepath.Join(dir, "members.txt")
	cfg.LoanDays = 7

	now, _ := fixedClock(day0)
	mgr, err := cfg.Open(WithClock(now))
	require.NoError(t, err)
	defer mgr.Close()
	mgr.AddBook("Dune", "Herbert", "SF")
	mgr.RegisterMember("Alice")
	b, err := mgr.Borrow("M001", "B001")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", b.DueString())

	cfg.Backend = BackendSQLite
	cfg.DBFile = filepath.Join(dir, "lib.db")
	db, err := cfg.Open()
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "session=")

	_, err = NewLogger(&buf, "loud")
	assert.Error(t, err)
}
