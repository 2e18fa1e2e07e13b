package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock frozen at now plus whatever advance adds.
func fixedClock(now time.Time) (func() time.Time, func(time.Duration)) {
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestStore_AddBook(t *testing.T) {
	s := NewStore()

	id := s.AddBook("Dune", "Herbert", "SF")
	assert.Equal(t, "B001", id)
	assert.Equal(t, "B002", s.AddBook("Emma", "Austen", "Classic"))

	b, err := s.Book(id)
	require.NoError(t, err)
	assert.Equal(t, &Book{ID: "B001", Title: "Dune", Author: "Herbert", Genre: "SF", Available: true}, b)
	assert.Equal(t, 2, s.BookCount())
}

func TestStore_AddBookSkipsTakenIDs(t *testing.T) {
	s := NewStore()
	s.Restore(Snapshot{Books: []*Book{{ID: "B002", Title: "X", Available: true}}})
	// Seeded past B002.
	assert.Equal(t, "B003", s.AddBook("Y", "", ""))
}

func TestStore_RemovedIDNotReissuedInSession(t *testing.T) {
	s := NewStore()
	s.AddBook("A", "a", "g")
	id := s.AddBook("B", "b", "g")
	require.NoError(t, s.RemoveBook(id))

	assert.Equal(t, "B003", s.AddBook("C", "c", "g"))
}

func TestStore_UpdateBook(t *testing.T) {
	s := NewStore()
	id := s.AddBook("Dune", "Herbert", "SF")

	require.NoError(t, s.UpdateBook(id, "Dune Messiah", "", "  "))
	b, _ := s.Book(id)
	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, "Herbert", b.Author)
	assert.Equal(t, "SF", b.Genre)

	err := s.UpdateBook("B999", "x", "y", "z")
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveBook(t *testing.T) {
	s := NewStore()
	id := s.AddBook("Dune", "Herbert", "SF")

	require.NoError(t, s.RemoveBook(id))
	_, err := s.Book(id)
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, s.RemoveBook(id), ErrBookNotFound)
}

func TestStore_Members(t *testing.T) {
	s := NewStore()
	id := s.RegisterMember("Alice")
	assert.Equal(t, "M001", id)
	s.RegisterMember("Bob")

	require.NoError(t, s.UpdateMember(id, "Alicia"))
	require.NoError(t, s.UpdateMember(id, ""))
	m, err := s.Member(id)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", m.Name)
	assert.Empty(t, m.Borrowed)
	assert.NotNil(t, m.Borrowed)

	assert.ErrorIs(t, s.UpdateMember("M999", "x"), ErrMemberNotFound)
	require.NoError(t, s.RemoveMember(id))
	assert.ErrorIs(t, s.RemoveMember(id), ErrMemberNotFound)

	members := s.Members()
	require.Len(t, members, 1)
	assert.Equal(t, "Bob", members[0].Name)
}

func TestStore_ListingsAreCopies(t *testing.T) {
	s := NewStore()
	s.AddBook("Dune", "Herbert", "SF")
	mid := s.RegisterMember("Alice")

	books := s.Books()
	books[0].Title = "changed"
	members := s.Members()
	members[0].Borrowed = append(members[0].Borrowed, "B001")

	b, _ := s.Book("B001")
	m, _ := s.Member(mid)
	assert.Equal(t, "Dune", b.Title)
	assert.Empty(t, m.Borrowed)
}

func TestStore_TableOrder(t *testing.T) {
	s := NewStore()
	for _, title := range []string{"C", "A", "B"} {
		s.AddBook(title, "", "")
	}
	var titles []string
	for _, b := range s.Books() {
		titles = append(titles, b.Title)
	}
	assert.Equal(t, []string{"C", "A", "B"}, titles)
}
