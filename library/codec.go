package library

import (
	"fmt"
	"strings"
)

const (
	fieldSep     = ","
	bookFields   = 5
	memberFields = 3

	availableToken   = "True"
	unavailableToken = "False"
)

// EncodeBook renders a book as "id,title,author,genre,True|False".
// Due date and borrow count are not part of the line.
func EncodeBook(b *Book) string {
	avail := unavailableToken
	if b.Available {
		avail = availableToken
	}
	return strings.Join([]string{b.ID, b.Title, b.Author, b.Genre, avail}, fieldSep)
}

// DecodeBook parses a book line. The line must split into exactly five fields.
// Only the literal token "True" marks a book available.
func DecodeBook(line string) (*Book, error) {
	parts := strings.Split(strings.TrimSpace(line), fieldSep)
	if len(parts) != bookFields {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, bookFields, len(parts))
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: empty book id", ErrMalformedRecord)
	}
	return &Book{
		ID:        parts[0],
		Title:     parts[1],
		Author:    parts[2],
		Genre:     parts[3],
		Available: parts[4] == availableToken,
	}, nil
}

// EncodeMember renders a member as "id,name,B001,B002" (third field empty when
// nothing is borrowed).
func EncodeMember(m *Member) string {
	return m.ID + fieldSep + m.Name + fieldSep + strings.Join(m.Borrowed, fieldSep)
}

// DecodeMember parses a member line, splitting into at most three fields so
// that everything after the name is the borrowed list. Borrowed identifiers
// are trimmed and blanks dropped, which also accepts lists written as
// "B001, B002". The identifiers are not checked against any book table.
func DecodeMember(line string) (*Member, error) {
	parts := strings.SplitN(strings.TrimSpace(line), fieldSep, memberFields)
	if len(parts) != memberFields {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, memberFields, len(parts))
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: empty member id", ErrMalformedRecord)
	}
	m := &Member{ID: parts[0], Name: parts[1], Borrowed: []string{}}
	for _, id := range strings.Split(parts[2], fieldSep) {
		if id = strings.TrimSpace(id); id != "" {
			m.Borrowed = append(m.Borrowed, id)
		}
	}
	return m, nil
}

// unencodable reports text fields that the line format cannot carry.
func unencodable(fields ...string) bool {
	for _, f := range fields {
		if strings.ContainsAny(f, fieldSep+"\r\n") {
			return true
		}
	}
	return false
}
