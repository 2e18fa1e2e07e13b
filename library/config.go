package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Backend kinds accepted by Config.Backend.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBooksFile   = "LIBRARY_BOOKS_FILE"
	EnvMembersFile = "LIBRARY_MEMBERS_FILE"
	EnvBackend     = "LIBRARY_BACKEND"
	EnvDBFile      = "LIBRARY_DB_FILE"
	EnvLoanDays    = "LIBRARY_LOAN_DAYS"
	EnvLogLevel    = "LIBRARY_LOG_LEVEL"
)

// Config selects where the library lives and how it behaves.
type Config struct {
	BooksFile   string
	MembersFile string
	Backend     string
	DBFile      string
	LoanDays    int
	LogLevel    string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BooksFile:   "books.txt",
		MembersFile: "members.txt",
		Backend:     BackendText,
		DBFile:      "library.db",
		LoanDays:    2,
		LogLevel:    "warn",
	}
}

// LoadEnvFiles merges .env style files into the process environment.
// Missing files are ignored; variables already set win.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ConfigFromEnv overlays DefaultConfig with the LIBRARY_* variables found by
// lookup. The result is validated by Open, after flags have been applied.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	for key, dst := range map[string]*string{
		EnvBooksFile:   &cfg.BooksFile,
		EnvMembersFile: &cfg.MembersFile,
		EnvBackend:     &cfg.Backend,
		EnvDBFile:      &cfg.DBFile,
		EnvLogLevel:    &cfg.LogLevel,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(EnvLoanDays); ok && v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLoanDays, err)
		}
		cfg.LoanDays = days
	}
	return cfg, nil
}

// Validate rejects unknown backends and non-positive loan periods.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendText, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendText, BackendSQLite)
	}
	if c.LoanDays <= 0 {
		return fmt.Errorf("loan days must be positive, got %d", c.LoanDays)
	}
	return nil
}

// LoanPeriod converts LoanDays to a duration.
func (c Config) LoanPeriod() time.Duration {
	return time.Duration(c.LoanDays) * 24 * time.Hour
}

// Open builds the manager for the configured backend.
func (c Config) Open(opts ...Option) (*LibraryManager, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts = append([]Option{WithLoanPeriod(c.LoanPeriod())}, opts...)
	if c.Backend == BackendSQLite {
		return OpenDatabase(c.DBFile, opts...)
	}
	return OpenFlatFiles(c.BooksFile, c.MembersFile, opts...)
}

// NewLogger returns a text logger at the named level, tagged with a session
// id so the records of one run can be told apart.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With("session", uuid.NewString()), nil
}
