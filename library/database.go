package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	dialectSQLite = "sqlite3"

	tableBooks   = "books"
	tableMembers = "members"
	tableLoans   = "loans"
)

// Database stores the same tuples as FlatFiles in a SQLite file.
// Loans keep their borrow order through the seq column.
type Database struct {
	db   *sqlx.DB
	path string
	// fresh is set when the file did not exist before Open.
	fresh bool
}

type bookRow struct {
	Seq       int    `db:"seq"`
	ID        string `db:"id"`
	Title     string `db:"title"`
	Author    string `db:"author"`
	Genre     string `db:"genre"`
	Available bool   `db:"available"`
}

type memberRow struct {
	Seq  int    `db:"seq"`
	ID   string `db:"id"`
	Name string `db:"name"`
}

type loanRow struct {
	Seq      int    `db:"seq"`
	MemberID string `db:"member_id"`
	BookID   string `db:"book_id"`
}

// NewDatabase opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	_, statErr := os.Stat(dbPath)

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sqlx.Open(dialectSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db, path: dbPath, fresh: errors.Is(statErr, fs.ErrNotExist)}, nil
}

// Close closes the DB.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.Get(&current, `SELECT value FROM meta WHERE key='schema_version';`)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            seq INTEGER NOT NULL,
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            genre TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1
        );`,
		`CREATE TABLE IF NOT EXISTS members (
            seq INTEGER NOT NULL,
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL
        );`,
		// No foreign keys: a member may still list a removed book.
		`CREATE TABLE IF NOT EXISTS loans (
            seq INTEGER NOT NULL,
            member_id TEXT NOT NULL,
            book_id TEXT NOT NULL
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Backend
// ---------------------------------------------------------------------------

// Load reads all three tables in stored order.
func (d *Database) Load() (Snapshot, []error, error) {
	var snap Snapshot
	var diags []error
	if d.fresh {
		diags = append(diags, &RecordError{Source: d.path, Err: ErrStoreUnavailable})
	}

	var books []bookRow
	if err := d.selectAll(&books, tableBooks, "seq", "id", "title", "author", "genre", "available"); err != nil {
		return snap, diags, fmt.Errorf("load books: %w", err)
	}
	for _, r := range books {
		snap.Books = append(snap.Books, &Book{ID: r.ID, Title: r.Title, Author: r.Author, Genre: r.Genre, Available: r.Available})
	}

	var members []memberRow
	if err := d.selectAll(&members, tableMembers, "seq", "id", "name"); err != nil {
		return snap, diags, fmt.Errorf("load members: %w", err)
	}
	byID := make(map[string]*Member, len(members))
	for _, r := range members {
		m := &Member{ID: r.ID, Name: r.Name, Borrowed: []string{}}
		byID[r.ID] = m
		snap.Members = append(snap.Members, m)
	}

	var loans []loanRow
	if err := d.selectAll(&loans, tableLoans, "seq", "member_id", "book_id"); err != nil {
		return snap, diags, fmt.Errorf("load loans: %w", err)
	}
	for _, r := range loans {
		m, ok := byID[r.MemberID]
		if !ok {
			diags = append(diags, &RecordError{Source: d.path, Line: r.Seq, Text: r.MemberID + fieldSep + r.BookID,
				Err: fmt.Errorf("%w: loan for unknown member", ErrMalformedRecord)})
			continue
		}
		m.Borrowed = append(m.Borrowed, r.BookID)
	}
	return snap, diags, nil
}

func (d *Database) selectAll(dest any, table string, cols ...any) error {
	query, _, err := goqu.Dialect(dialectSQLite).
		From(table).
		Select(cols...).
		Order(goqu.I("seq").Asc()).
		ToSQL()
	if err != nil {
		return err
	}
	return d.db.Select(dest, query)
}

// Save replaces the stored tables with snap in one transaction.
func (d *Database) Save(snap Snapshot) ([]error, error) {
	books := make([]any, 0, len(snap.Books))
	for i, b := range snap.Books {
		books = append(books, bookRow{Seq: i + 1, ID: b.ID, Title: b.Title, Author: b.Author, Genre: b.Genre, Available: b.Available})
	}
	members := make([]any, 0, len(snap.Members))
	var loans []any
	for i, m := range snap.Members {
		members = append(members, memberRow{Seq: i + 1, ID: m.ID, Name: m.Name})
		for _, bookID := range m.Borrowed {
			loans = append(loans, loanRow{Seq: len(loans) + 1, MemberID: m.ID, BookID: bookID})
		}
	}

	tx, err := d.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, table := range []string{tableLoans, tableMembers, tableBooks} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertRows(tx, tableBooks, books); err != nil {
		return nil, err
	}
	if err := insertRows(tx, tableMembers, members); err != nil {
		return nil, err
	}
	if err := insertRows(tx, tableLoans, loans); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	d.fresh = false
	return nil, nil
}

// insertBatchSize keeps each statement well under SQLite's bound-parameter limit.
const insertBatchSize = 500

func insertRows(tx *sqlx.Tx, table string, rows []any) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		query, args, err := goqu.Dialect(dialectSQLite).
			Insert(table).
			Prepared(true).
			Rows(rows[start:end]...).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", table, err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}
