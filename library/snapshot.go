package library

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Snapshot is the persisted shape of a Store: the book and member tuples a
// Backend reads and writes, in table order. Member.Borrowed holds raw
// identifiers that Restore validates against Books.
type Snapshot struct {
	Books   []*Book
	Members []*Member
}

// Snapshot copies the current tables.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Books: s.Books(), Members: s.Members()}
}

// Restore replaces the store contents with snap and returns load diagnostics.
//
// Books are restored first so member lists can be checked against them.
// A member listed twice keeps its first position and its last entry; links
// are made in table order once duplicates are gone:
//   - a borrowed identifier with no matching book is dropped;
//   - a book already claimed by an earlier member is not linked again;
//   - a linked book is marked unavailable even if the snapshot said otherwise;
//   - an unavailable book no member claims is made available.
//
// Due dates and borrow counts are not persisted, so restored books start
// with neither. The identifier generators are reseeded past the largest
// identifier present.
func (s *Store) Restore(snap Snapshot) []error {
	s.reset()
	var diags []error

	for _, in := range snap.Books {
		b := &Book{
			ID:        in.ID,
			Title:     in.Title,
			Author:    in.Author,
			Genre:     in.Genre,
			Available: in.Available,
		}
		if _, dup := s.books.Set(b.ID, b); dup {
			diags = append(diags, fmt.Errorf("book %s listed more than once, keeping the last entry", b.ID))
		}
	}

	// Duplicates are settled before any book is linked.
	claims := make(map[string][]string, len(snap.Members))
	for _, in := range snap.Members {
		m := &Member{ID: in.ID, Name: in.Name, Borrowed: []string{}}
		if _, dup := s.members.Set(m.ID, m); dup {
			diags = append(diags, fmt.Errorf("member %s listed more than once, keeping the last entry", m.ID))
		}
		claims[m.ID] = in.Borrowed
	}

	holders := make(map[string]string)
	for pair := s.members.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		for _, bookID := range claims[m.ID] {
			b, ok := s.books.Get(bookID)
			if !ok {
				diags = append(diags, fmt.Errorf("member %s: dropping borrowed %w: %s", m.ID, ErrBookNotFound, bookID))
				continue
			}
			if holder, held := holders[bookID]; held {
				diags = append(diags, fmt.Errorf("member %s: book %s already held by %s, not linked", m.ID, bookID, holder))
				continue
			}
			if b.Available {
				diags = append(diags, fmt.Errorf("book %s held by %s but stored as available, marking unavailable", bookID, m.ID))
				b.Available = false
			}
			holders[bookID] = m.ID
			m.Borrowed = append(m.Borrowed, bookID)
		}
	}

	for pair := s.books.Oldest(); pair != nil; pair = pair.Next() {
		b := pair.Value
		if _, held := holders[b.ID]; !b.Available && !held {
			diags = append(diags, fmt.Errorf("book %s stored as unavailable but no member holds it, marking available", b.ID))
			b.Available = true
		}
	}

	s.bookIDs.seed(keys(s.books))
	s.memberIDs.seed(keys(s.members))
	return diags
}

func keys[V any](om *orderedmap.OrderedMap[string, V]) []string {
	out := make([]string, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
