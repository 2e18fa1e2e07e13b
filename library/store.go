package library

import (
	"fmt"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultLoanPeriod is how long a borrowed book may be kept.
const DefaultLoanPeriod = 2 * 24 * time.Hour

// Store is the in-memory record of books and members for one session.
// Both tables keep insertion order, which is also the order they are saved in.
// Store is not safe for concurrent use; LibraryManager serializes access to it.
type Store struct {
	books   *orderedmap.OrderedMap[string, *Book]
	members *orderedmap.OrderedMap[string, *Member]

	bookIDs   idGenerator
	memberIDs idGenerator

	loanPeriod time.Duration
	now        func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLoanPeriod overrides DefaultLoanPeriod. Non-positive values are ignored.
func WithStoreLoanPeriod(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.loanPeriod = d
		}
	}
}

// WithStoreClock replaces time.Now for due-date computation and overdue checks.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		loanPeriod: DefaultLoanPeriod,
		now:        time.Now,
	}
	s.reset()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) reset() {
	s.books = orderedmap.New[string, *Book]()
	s.members = orderedmap.New[string, *Member]()
	s.bookIDs = newIDGenerator(bookIDPrefix)
	s.memberIDs = newIDGenerator(memberIDPrefix)
}

// ------------------ Books ------------------

// AddBook inserts an available book and returns its new identifier.
func (s *Store) AddBook(title, author, genre string) string {
	id := s.bookIDs.next(s.hasBook)
	s.books.Set(id, &Book{
		ID:        id,
		Title:     title,
		Author:    author,
		Genre:     genre,
		Available: true,
	})
	return id
}

// UpdateBook replaces the text fields that are not blank.
func (s *Store) UpdateBook(id, title, author, genre string) error {
	b, ok := s.books.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	setIfPresent(&b.Title, title)
	setIfPresent(&b.Author, author)
	setIfPresent(&b.Genre, genre)
	return nil
}

// RemoveBook deletes the book. A member holding it keeps the identifier in
// their borrowed list; see CheckIntegrity.
func (s *Store) RemoveBook(id string) error {
	if _, ok := s.books.Delete(id); !ok {
		return fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return nil
}

// Book returns a copy of the book with the given identifier.
func (s *Store) Book(id string) (*Book, error) {
	b, ok := s.books.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return b.clone(), nil
}

// Books returns copies of all books in table order.
func (s *Store) Books() []*Book {
	return s.filterBooks(func(*Book) bool { return true })
}

// BookCount returns the number of books in the catalog.
func (s *Store) BookCount() int { return s.books.Len() }

func (s *Store) hasBook(id string) bool {
	_, ok := s.books.Get(id)
	return ok
}

func (s *Store) filterBooks(keep func(*Book) bool) []*Book {
	out := make([]*Book, 0, s.books.Len())
	for pair := s.books.Oldest(); pair != nil; pair = pair.Next() {
		if keep(pair.Value) {
			out = append(out, pair.Value.clone())
		}
	}
	return out
}

// ------------------ Members ------------------

// RegisterMember inserts a member with no borrowed books and returns the new identifier.
func (s *Store) RegisterMember(name string) string {
	id := s.memberIDs.next(s.hasMember)
	s.members.Set(id, &Member{ID: id, Name: name, Borrowed: []string{}})
	return id
}

// UpdateMember replaces the member's name unless name is blank.
func (s *Store) UpdateMember(id, name string) error {
	m, ok := s.members.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	setIfPresent(&m.Name, name)
	return nil
}

// RemoveMember deletes the member. Books they hold stay unavailable; see CheckIntegrity.
func (s *Store) RemoveMember(id string) error {
	if _, ok := s.members.Delete(id); !ok {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return nil
}

// Member returns a copy of the member with the given identifier.
func (s *Store) Member(id string) (*Member, error) {
	m, ok := s.members.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return m.clone(), nil
}

// Members returns copies of all members in table order.
func (s *Store) Members() []*Member {
	out := make([]*Member, 0, s.members.Len())
	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.clone())
	}
	return out
}

// MemberCount returns the number of registered members.
func (s *Store) MemberCount() int { return s.members.Len() }

func (s *Store) hasMember(id string) bool {
	_, ok := s.members.Get(id)
	return ok
}

func setIfPresent(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}
