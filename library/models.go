package library

import (
	"fmt"
	"slices"
	"time"
)

const dueDateLayout = "2006-01-02"

// Book represents a catalog entry and its current circulation state.
// DueDate is set exactly while the book is out; BorrowCount only ever grows.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Genre       string     `json:"genre"`
	Available   bool       `json:"available"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	BorrowCount int        `json:"borrow_count"`
}

// Member represents a registered library member.
// Borrowed holds book IDs in the order they were borrowed, never book copies.
type Member struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Borrowed []string `json:"borrowed"`
}

// Loan pairs a held book with the member holding it.
type Loan struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Book       *Book  `json:"book"`
}

// String formats a book the way listings show it: "B001: Dune by Herbert (Due: N/A)".
func (b *Book) String() string {
	return fmt.Sprintf("%s: %s by %s (Due: %s)", b.ID, b.Title, b.Author, b.DueString())
}

// DueString renders the due date as YYYY-MM-DD, or N/A when the book is not out.
func (b *Book) DueString() string {
	if b.DueDate == nil {
		return "N/A"
	}
	return b.DueDate.Format(dueDateLayout)
}

func (b *Book) clone() *Book {
	c := *b
	if b.DueDate != nil {
		due := *b.DueDate
		c.DueDate = &due
	}
	return &c
}

func (m *Member) clone() *Member {
	c := *m
	c.Borrowed = slices.Clone(m.Borrowed)
	if c.Borrowed == nil {
		c.Borrowed = []string{}
	}
	return &c
}

// holds reports whether bookID is in the member's borrowed list.
func (m *Member) holds(bookID string) bool {
	return slices.Contains(m.Borrowed, bookID)
}
