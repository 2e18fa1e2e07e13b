package main

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"library-records/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// renderCatalog prints every book with its status.
func renderCatalog(w io.Writer, books []*library.Book, asJSON bool) error {
	if asJSON {
		return writeJSON(w, books)
	}
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return nil
	}
	fmt.Fprintf(w, "%-6s %-30s %-25s %-15s %-10s %s\n", "ID", "Title", "Author", "Genre", "Available", "Due")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, b := range books {
		avail := "No"
		if b.Available {
			avail = "Yes"
		}
		fmt.Fprintf(w, "%-6s %-30s %-25s %-15s %-10s %s\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			truncateString(b.Genre, 15),
			avail,
			b.DueString())
	}
	return nil
}

// renderBookList prints books one per line under a heading, or empty when
// there are none.
func renderBookList(w io.Writer, heading, empty string, books []*library.Book, asJSON bool) error {
	if asJSON {
		return writeJSON(w, books)
	}
	if len(books) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}
	fmt.Fprintln(w, heading)
	for _, b := range books {
		fmt.Fprintln(w, b)
	}
	return nil
}

func renderMembers(w io.Writer, members []*library.Member, asJSON bool) error {
	if asJSON {
		return writeJSON(w, members)
	}
	if len(members) == 0 {
		fmt.Fprintln(w, "No members registered.")
		return nil
	}
	fmt.Fprintf(w, "%-6s %-30s %s\n", "ID", "Name", "Borrowed")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, m := range members {
		borrowed := strings.Join(m.Borrowed, ", ")
		if borrowed == "" {
			borrowed = "-"
		}
		fmt.Fprintf(w, "%-6s %-30s %s\n", m.ID, truncateString(m.Name, 30), borrowed)
	}
	return nil
}

func renderLoans(w io.Writer, loans []library.Loan, asJSON bool) error {
	if asJSON {
		if loans == nil {
			loans = []library.Loan{}
		}
		return writeJSON(w, loans)
	}
	if len(loans) == 0 {
		fmt.Fprintln(w, "No books are currently borrowed.")
		return nil
	}
	fmt.Fprintln(w, "Borrowed Books:")
	for _, l := range loans {
		fmt.Fprintf(w, "%s borrowed by %s (%s)\n", l.Book, l.MemberName, l.MemberID)
	}
	return nil
}

func renderOverdue(w io.Writer, books []*library.Book, asJSON bool) error {
	return renderBookList(w, "Overdue Books:", "No overdue books.", books, asJSON)
}

func renderPopular(w io.Writer, books []*library.Book, asJSON bool) error {
	if asJSON {
		return writeJSON(w, books)
	}
	if len(books) == 0 {
		fmt.Fprintln(w, "No books have been borrowed yet.")
		return nil
	}
	fmt.Fprintln(w, "Most Borrowed Books:")
	for i, b := range books {
		fmt.Fprintf(w, "%d. %s by %s - borrowed %d times\n", i+1, b.Title, b.Author, b.BorrowCount)
	}
	return nil
}

// truncateString shortens s to maxLength runes, marking the cut with "...".
func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}
