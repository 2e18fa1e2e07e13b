package library

import (
	"cmp"
	"fmt"
	"slices"
)

// DefaultMostBorrowedLimit is the size of the popularity list.
const DefaultMostBorrowedLimit = 5

// AvailableBooks returns the books nobody holds, in table order.
func (s *Store) AvailableBooks() []*Book {
	return s.filterBooks(func(b *Book) bool { return b.Available })
}

// UnavailableBooks returns the books currently out, in table order.
func (s *Store) UnavailableBooks() []*Book {
	return s.filterBooks(func(b *Book) bool { return !b.Available })
}

// OverdueBooks returns the books out past their due date.
// A book out without a due date (after a reload) is not overdue.
func (s *Store) OverdueBooks() []*Book {
	now := s.now()
	return s.filterBooks(func(b *Book) bool {
		return !b.Available && b.DueDate != nil && b.DueDate.Before(now)
	})
}

// MostBorrowed returns up to limit books that were borrowed at least once,
// highest count first. Ties keep table order. A non-positive limit means
// DefaultMostBorrowedLimit.
func (s *Store) MostBorrowed(limit int) []*Book {
	if limit <= 0 {
		limit = DefaultMostBorrowedLimit
	}
	out := s.filterBooks(func(b *Book) bool { return b.BorrowCount > 0 })
	slices.SortStableFunc(out, func(a, b *Book) int {
		return cmp.Compare(b.BorrowCount, a.BorrowCount)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BorrowedBooks lists every held book with its holder, in member order and
// then borrow order. Identifiers of removed books are skipped.
func (s *Store) BorrowedBooks() []Loan {
	var out []Loan
	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		for _, bookID := range m.Borrowed {
			b, ok := s.books.Get(bookID)
			if !ok {
				continue
			}
			out = append(out, Loan{MemberID: m.ID, MemberName: m.Name, Book: b.clone()})
		}
	}
	return out
}

// CheckIntegrity reports every place where the book and member tables
// disagree. An empty result means every unavailable book has exactly one
// holder and every held identifier resolves to an unavailable book.
//
// Books out without a due date are not reported: due dates are not persisted,
// so every book held across a reload is in that state.
func (s *Store) CheckIntegrity() []error {
	var problems []error
	holders := make(map[string]string)

	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		for _, bookID := range m.Borrowed {
			b, ok := s.books.Get(bookID)
			switch {
			case !ok:
				problems = append(problems, fmt.Errorf("member %s holds %w: %s", m.ID, ErrBookNotFound, bookID))
				continue
			case b.Available:
				problems = append(problems, fmt.Errorf("member %s holds %s which is marked available", m.ID, bookID))
			}
			if other, dup := holders[bookID]; dup {
				problems = append(problems, fmt.Errorf("book %s is held by both %s and %s", bookID, other, m.ID))
				continue
			}
			holders[bookID] = m.ID
		}
	}

	for pair := s.books.Oldest(); pair != nil; pair = pair.Next() {
		b := pair.Value
		if !b.Available {
			if _, held := holders[b.ID]; !held {
				problems = append(problems, fmt.Errorf("book %s is unavailable but no member holds it", b.ID))
			}
		}
		if b.Available && b.DueDate != nil {
			problems = append(problems, fmt.Errorf("book %s is available but has a due date", b.ID))
		}
	}
	return problems
}
