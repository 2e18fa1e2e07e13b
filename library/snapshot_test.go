package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore_Reconciles(t *testing.T) {
	s := NewStore()
	diags := s.Restore(Snapshot{
		Books: []*Book{
			{ID: "B001", Title: "Dune", Available: true},   // held, stored available
			{ID: "B002", Title: "Emma", Available: false},  // held by two members
			{ID: "B003", Title: "Ubik", Available: false},  // nobody holds it
			{ID: "B004", Title: "Walden", Available: true}, // untouched
		},
		Members: []*Member{
			{ID: "M001", Name: "Alice", Borrowed: []string{"B001", "B002", "B404"}},
			{ID: "M002", Name: "Bob", Borrowed: []string{"B002"}},
		},
	})
	assert.Len(t, diags, 4)

	alice, err := s.Member("M001")
	require.NoError(t, err)
	assert.Equal(t, []string{"B001", "B002"}, alice.Borrowed)
	bob, _ := s.Member("M002")
	assert.Empty(t, bob.Borrowed)

	assert.Equal(t, []string{"B001", "B002"}, bookIDs(s.UnavailableBooks()))
	assert.Equal(t, []string{"B003", "B004"}, bookIDs(s.AvailableBooks()))
	assert.Empty(t, s.CheckIntegrity())
}

func TestRestore_DuplicateIDs(t *testing.T) {
	s := NewStore()
	diags := s.Restore(Snapshot{
		Books: []*Book{
			{ID: "B001", Title: "First", Available: true},
			{ID: "B002", Title: "Emma", Available: true},
			{ID: "B001", Title: "Second", Available: true},
		},
		Members: []*Member{
			{ID: "M001", Name: "Alice", Borrowed: []string{"B002"}},
			{ID: "M001", Name: "Alicia", Borrowed: []string{}},
		},
	})

	books := s.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "B001", books[0].ID)
	assert.Equal(t, "Second", books[0].Title)

	m, _ := s.Member("M001")
	assert.Equal(t, "Alicia", m.Name)
	assert.Empty(t, m.Borrowed)

	// Only the two duplicates; the discarded entry's claim on B002 is never linked.
	assert.Len(t, diags, 2)
	b, _ := s.Book("B002")
	assert.True(t, b.Available)
	assert.Empty(t, s.CheckIntegrity())
}

func TestRestore_DuplicateMemberDoesNotBlockLaterClaim(t *testing.T) {
	s := NewStore()
	s.Restore(Snapshot{
		Books: []*Book{{ID: "B001", Title: "Dune", Available: false}},
		Members: []*Member{
			{ID: "M001", Name: "Alice", Borrowed: []string{"B001"}},
			{ID: "M002", Name: "Bob", Borrowed: []string{"B001"}},
			{ID: "M001", Name: "Alice", Borrowed: []string{}},
		},
	})

	bob, err := s.Member("M002")
	require.NoError(t, err)
	assert.Equal(t, []string{"B001"}, bob.Borrowed)
	b, _ := s.Book("B001")
	assert.False(t, b.Available)
	assert.Empty(t, s.CheckIntegrity())
}

func TestRestore_ReplacesStateAndSeedsIDs(t *testing.T) {
	s := NewStore()
	s.AddBook("Gone", "", "")
	s.RegisterMember("Gone")

	s.Restore(Snapshot{
		Books:   []*Book{{ID: "B007", Title: "Dune", Available: true}},
		Members: []*Member{{ID: "M012", Name: "Alice"}},
	})

	assert.Equal(t, 1, s.BookCount())
	assert.Equal(t, 1, s.MemberCount())
	assert.Equal(t, "B008", s.AddBook("Emma", "", ""))
	assert.Equal(t, "M013", s.RegisterMember("Bob"))

	m, _ := s.Member("M012")
	assert.NotNil(t, m.Borrowed)
}

func TestRestore_DoesNotAliasSnapshot(t *testing.T) {
	snap := Snapshot{
		Books:   []*Book{{ID: "B001", Title: "Dune", Available: true}},
		Members: []*Member{{ID: "M001", Name: "Alice", Borrowed: []string{}}},
	}
	s := NewStore()
	s.Restore(snap)

	snap.Books[0].Title = "changed"
	snap.Members[0].Name = "changed"
	b, _ := s.Book("B001")
	m, _ := s.Member("M001")
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Alice", m.Name)
}
