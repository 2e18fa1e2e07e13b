package library

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store, lifecycle and persistence operations.
// Returned errors wrap these with the offending identifier; test with errors.Is.
var (
	// ErrNotFound is returned when a book or member identifier cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrBookNotFound is returned when a book identifier cannot be resolved.
	ErrBookNotFound = fmt.Errorf("book %w", ErrNotFound)

	// ErrMemberNotFound is returned when a member identifier cannot be resolved.
	ErrMemberNotFound = fmt.Errorf("member %w", ErrNotFound)

	// ErrBookUnavailable is returned when borrowing a book somebody already holds.
	ErrBookUnavailable = errors.New("book is currently unavailable")

	// ErrNotBorrowedByMember is returned when returning a book the member does not hold.
	ErrNotBorrowedByMember = errors.New("book was not borrowed by member")

	// ErrStoreUnavailable is recorded when a persisted store does not exist yet.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrMalformedRecord is recorded for a stored line that cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)

// RecordError locates a diagnostic inside a persisted store.
type RecordError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
}

func (e *RecordError) Unwrap() error { return e.Err }
