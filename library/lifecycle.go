package library

import (
	"fmt"
	"slices"
)

// Borrow lends bookID to memberID.
//
// Preconditions are checked in order and each fails with its own error:
// the member must exist (ErrMemberNotFound), the book must exist
// (ErrBookNotFound) and the book must be available (ErrBookUnavailable).
// On success the book is marked out with a due date one loan period from now,
// its borrow count grows by one and its ID is appended to the member's list.
// A failed call leaves the store untouched.
func (s *Store) Borrow(memberID, bookID string) (*Book, error) {
	m, ok := s.members.Get(memberID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	b, ok := s.books.Get(bookID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
	}
	if !b.Available {
		return nil, fmt.Errorf("%w: %s", ErrBookUnavailable, bookID)
	}

	due := s.now().Add(s.loanPeriod)
	b.Available = false
	b.DueDate = &due
	b.BorrowCount++
	m.Borrowed = append(m.Borrowed, bookID)
	return b.clone(), nil
}

// Return takes bookID back from memberID.
//
// The member and book must exist, and the book must be in this member's
// borrowed list; a book held by someone else fails with ErrNotBorrowedByMember
// too. The borrow count is a lifetime counter and is left as is.
func (s *Store) Return(memberID, bookID string) (*Book, error) {
	m, ok := s.members.Get(memberID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	b, ok := s.books.Get(bookID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
	}
	i := slices.Index(m.Borrowed, bookID)
	if i < 0 {
		return nil, fmt.Errorf("%w: member %s, book %s", ErrNotBorrowedByMember, memberID, bookID)
	}

	b.Available = true
	b.DueDate = nil
	m.Borrowed = slices.Delete(m.Borrowed, i, i+1)
	return b.clone(), nil
}
