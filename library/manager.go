package library

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LibraryManager is a thin façade over the Store and its Backend, keeping CLI
// code simple. Every method runs under one mutex, so a borrow or return is
// never observed half applied.
type LibraryManager struct {
	mu      sync.Mutex
	store   *Store
	backend Backend
	logger  *slog.Logger

	loadDiags []error
}

// Option configures a LibraryManager.
type Option func(*managerConfig)

type managerConfig struct {
	logger    *slog.Logger
	storeOpts []StoreOption
}

// WithLogger sets the logger for load, save and circulation events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *managerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoanPeriod sets how long a borrowed book may be kept.
func WithLoanPeriod(d time.Duration) Option {
	return func(c *managerConfig) {
		c.storeOpts = append(c.storeOpts, WithStoreLoanPeriod(d))
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *managerConfig) {
		c.storeOpts = append(c.storeOpts, WithStoreClock(now))
	}
}

// NewLibraryManager loads the state held by backend. Load diagnostics are
// logged and kept for LoadDiagnostics; only an unusable backend is an error.
func NewLibraryManager(backend Backend, opts ...Option) (*LibraryManager, error) {
	cfg := managerConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	lm := &LibraryManager{
		store:   NewStore(cfg.storeOpts...),
		backend: backend,
		logger:  cfg.logger,
	}
	if err := lm.Reload(); err != nil {
		return nil, err
	}
	return lm, nil
}

// OpenFlatFiles opens a manager over the two text files.
func OpenFlatFiles(booksPath, membersPath string, opts ...Option) (*LibraryManager, error) {
	return NewLibraryManager(NewFlatFiles(booksPath, membersPath), opts...)
}

// OpenDatabase opens (or creates) the SQLite database at dbPath.
func OpenDatabase(dbPath string, opts ...Option) (*LibraryManager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	lm, err := NewLibraryManager(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return lm, nil
}

// Close closes the backend without saving.
func (lm *LibraryManager) Close() error { return lm.backend.Close() }

// ------------------ Persistence ------------------

// Reload discards in-memory state and reads the backend again.
func (lm *LibraryManager) Reload() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	snap, diags, err := lm.backend.Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	diags = append(diags, lm.store.Restore(snap)...)
	for _, d := range diags {
		lm.logger.Warn("load diagnostic", "err", d)
	}
	lm.loadDiags = diags
	lm.logger.Info("library loaded",
		"books", lm.store.BookCount(),
		"members", lm.store.MemberCount(),
		"diagnostics", len(diags))
	return nil
}

// LoadDiagnostics returns what the last load skipped or repaired.
func (lm *LibraryManager) LoadDiagnostics() []error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return append([]error(nil), lm.loadDiags...)
}

// Save writes the current state through the backend.
func (lm *LibraryManager) Save() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	diags, err := lm.backend.Save(lm.store.Snapshot())
	for _, d := range diags {
		lm.logger.Warn("save diagnostic", "err", d)
	}
	if err != nil {
		lm.logger.Error("save failed", "err", err)
		return err
	}
	lm.logger.Info("library saved", "books", lm.store.BookCount(), "members", lm.store.MemberCount())
	return nil
}

// ------------------ Book helpers ------------------

func (lm *LibraryManager) AddBook(title, author, genre string) string {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	id := lm.store.AddBook(title, author, genre)
	lm.logger.Debug("book added", "book", id)
	return id
}

func (lm *LibraryManager) UpdateBook(id, title, author, genre string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.UpdateBook(id, title, author, genre)
}

func (lm *LibraryManager) RemoveBook(id string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.RemoveBook(id)
}

func (lm *LibraryManager) GetBook(id string) (*Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.Book(id)
}

func (lm *LibraryManager) GetAllBooks() []*Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.Books()
}

// ------------------ Member helpers ------------------

func (lm *LibraryManager) RegisterMember(name string) string {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	id := lm.store.RegisterMember(name)
	lm.logger.Debug("member registered", "member", id)
	return id
}

func (lm *LibraryManager) UpdateMember(id, name string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.UpdateMember(id, name)
}

func (lm *LibraryManager) RemoveMember(id string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.RemoveMember(id)
}

func (lm *LibraryManager) GetMember(id string) (*Member, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.Member(id)
}

func (lm *LibraryManager) GetAllMembers() []*Member {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.Members()
}

// ------------------ Circulation ------------------

// Borrow lends the book to the member and returns the updated book.
func (lm *LibraryManager) Borrow(memberID, bookID string) (*Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	b, err := lm.store.Borrow(memberID, bookID)
	if err != nil {
		return nil, err
	}
	lm.logger.Info("book borrowed", "member", memberID, "book", bookID, "due", b.DueString())
	return b, nil
}

// Return takes the book back from the member and returns the updated book.
func (lm *LibraryManager) Return(memberID, bookID string) (*Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	b, err := lm.store.Return(memberID, bookID)
	if err != nil {
		return nil, err
	}
	lm.logger.Info("book returned", "member", memberID, "book", bookID)
	return b, nil
}

// ------------------ Reports ------------------

func (lm *LibraryManager) AvailableBooks() []*Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.AvailableBooks()
}

func (lm *LibraryManager) UnavailableBooks() []*Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.UnavailableBooks()
}

func (lm *LibraryManager) OverdueBooks() []*Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.OverdueBooks()
}

func (lm *LibraryManager) MostBorrowed(limit int) []*Book {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.MostBorrowed(limit)
}

func (lm *LibraryManager) BorrowedBooks() []Loan {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.BorrowedBooks()
}

func (lm *LibraryManager) CheckIntegrity() []error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.CheckIntegrity()
}
