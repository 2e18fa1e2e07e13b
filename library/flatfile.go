package library

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FlatFiles stores books and members as two line-oriented text files.
type FlatFiles struct {
	BooksPath   string
	MembersPath string
}

// NewFlatFiles returns a backend for the given book and member files.
// The files need not exist yet.
func NewFlatFiles(booksPath, membersPath string) *FlatFiles {
	return &FlatFiles{BooksPath: booksPath, MembersPath: membersPath}
}

// Load reads books then members. A missing file yields an empty table and an
// ErrStoreUnavailable diagnostic; a malformed line is skipped with an
// ErrMalformedRecord diagnostic; any other read error stops that file only.
func (f *FlatFiles) Load() (Snapshot, []error, error) {
	var snap Snapshot
	var diags []error

	bookDiags := readLines(f.BooksPath, func(line string) error {
		b, err := DecodeBook(line)
		if err != nil {
			return err
		}
		snap.Books = append(snap.Books, b)
		return nil
	})
	diags = append(diags, bookDiags...)

	memberDiags := readLines(f.MembersPath, func(line string) error {
		m, err := DecodeMember(line)
		if err != nil {
			return err
		}
		snap.Members = append(snap.Members, m)
		return nil
	})
	diags = append(diags, memberDiags...)

	return snap, diags, nil
}

// Save rewrites both files. Fields containing the delimiter or a line break
// are written as is and reported, since they will not read back intact.
func (f *FlatFiles) Save(snap Snapshot) ([]error, error) {
	var diags []error

	bookLines := make([]string, 0, len(snap.Books))
	for _, b := range snap.Books {
		if unencodable(b.ID, b.Title, b.Author, b.Genre) {
			diags = append(diags, fmt.Errorf("book %s: text contains %q or a line break and will not reload cleanly", b.ID, fieldSep))
		}
		bookLines = append(bookLines, EncodeBook(b))
	}
	memberLines := make([]string, 0, len(snap.Members))
	for _, m := range snap.Members {
		if unencodable(m.ID, m.Name) {
			diags = append(diags, fmt.Errorf("member %s: name contains %q or a line break and will not reload cleanly", m.ID, fieldSep))
		}
		memberLines = append(memberLines, EncodeMember(m))
	}

	if err := writeLines(f.BooksPath, bookLines); err != nil {
		return diags, fmt.Errorf("save books: %w", err)
	}
	if err := writeLines(f.MembersPath, memberLines); err != nil {
		return diags, fmt.Errorf("save members: %w", err)
	}
	return diags, nil
}

// Close is a no-op; files are opened per Load and Save.
func (f *FlatFiles) Close() error { return nil }

// readLines feeds each non-blank line of path to decode and collects diagnostics.
func readLines(path string, decode func(line string) error) []error {
	file, err := os.Open(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return []error{&RecordError{Source: path, Err: ErrStoreUnavailable}}
	}
	if err != nil {
		return []error{&RecordError{Source: path, Err: err}}
	}
	defer file.Close()

	var diags []error
	br := bufio.NewReader(file)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			line = strings.TrimRight(line, "\r\n")
			if derr := decode(line); derr != nil {
				diags = append(diags, &RecordError{Source: path, Line: lineNo, Text: line, Err: derr})
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			diags = append(diags, &RecordError{Source: path, Line: lineNo, Err: err})
			break
		}
	}
	return diags
}

// writeLines replaces path with lines via a temp file and rename.
func writeLines(path string, lines []string) (err error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err = io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
