package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-records/library"
)

func (a *app) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive numbered menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				in := cmd.InOrStdin()
				sh := &shell{
					sc:          bufio.NewScanner(in),
					out:         cmd.OutOrStdout(),
					mgr:         mgr,
					interactive: isTerminal(in),
				}
				return sh.loop()
			})
		},
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// shell drives the numbered menu. Input ending before option 14 exits
// without saving.
type shell struct {
	sc          *bufio.Scanner
	out         io.Writer
	mgr         *library.LibraryManager
	interactive bool
}

var menu = []string{
	"Add Book",
	"Update Book",
	"Remove Book",
	"Register New Member",
	"Update Member",
	"Remove Member",
	"Show Available Books",
	"Show Unavailable Books",
	"Borrow Book",
	"Return Book",
	"List Borrowed Books with Due Dates",
	"List Overdue Books",
	"Most Popular Books",
	"Save and Exit",
}

func (sh *shell) loop() error {
	for {
		if sh.interactive {
			fmt.Fprintln(sh.out, "\nLibrary Management Menu:")
			for i, item := range menu {
				fmt.Fprintf(sh.out, "%d. %s\n", i+1, item)
			}
		}
		choice, ok := sh.ask("Enter your choice (1-14): ")
		if !ok {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = sh.addBook()
		case "2":
			err = sh.updateBook()
		case "3":
			err = sh.removeBook()
		case "4":
			err = sh.registerMember()
		case "5":
			err = sh.updateMember()
		case "6":
			err = sh.removeMember()
		case "7":
			err = renderBookList(sh.out, "Available Books:", "No books available for borrowing.", sh.mgr.AvailableBooks(), false)
		case "8":
			err = renderBookList(sh.out, "Unavailable (Borrowed) Books:", "All books are available.", sh.mgr.UnavailableBooks(), false)
		case "9":
			err = sh.borrow()
		case "10":
			err = sh.giveBack()
		case "11":
			err = renderLoans(sh.out, sh.mgr.BorrowedBooks(), false)
		case "12":
			err = renderOverdue(sh.out, sh.mgr.OverdueBooks(), false)
		case "13":
			err = renderPopular(sh.out, sh.mgr.MostBorrowed(library.DefaultMostBorrowedLimit), false)
		case "14":
			if err := sh.mgr.Save(); err != nil {
				return err
			}
			fmt.Fprintln(sh.out, "Library data saved. Exiting the program.")
			return nil
		default:
			fmt.Fprintln(sh.out, "Invalid choice. Please try again.")
		}

		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

var errInputClosed = errors.New("input closed")

// ask prints prompt on a terminal and reads one trimmed line.
func (sh *shell) ask(prompt string) (string, bool) {
	if sh.interactive {
		fmt.Fprint(sh.out, prompt)
	}
	if !sh.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.sc.Text()), true
}

// askAll reads one answer per prompt, failing with errInputClosed at EOF.
func (sh *shell) askAll(prompts ...string) ([]string, error) {
	answers := make([]string, 0, len(prompts))
	for _, p := range prompts {
		v, ok := sh.ask(p)
		if !ok {
			return nil, errInputClosed
		}
		answers = append(answers, v)
	}
	return answers, nil
}

func (sh *shell) addBook() error {
	in, err := sh.askAll("Enter Book Title: ", "Enter Book Author: ", "Enter Book Genre: ")
	if err != nil {
		return err
	}
	id := sh.mgr.AddBook(in[0], in[1], in[2])
	fmt.Fprintf(sh.out, "Book '%s' added successfully with ID: %s.\n", in[0], id)
	return nil
}

func (sh *shell) updateBook() error {
	in, err := sh.askAll("Enter Book ID to update: ",
		"Enter new title (or leave blank): ",
		"Enter new author (or leave blank): ",
		"Enter new genre (or leave blank): ")
	if err != nil {
		return err
	}
	if err := sh.mgr.UpdateBook(in[0], in[1], in[2], in[3]); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Book '%s' updated successfully.\n", in[0])
	return nil
}

func (sh *shell) removeBook() error {
	in, err := sh.askAll("Enter Book ID to remove: ")
	if err != nil {
		return err
	}
	b, err := sh.mgr.GetBook(in[0])
	if err != nil {
		return err
	}
	if err := sh.mgr.RemoveBook(in[0]); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Book '%s' removed from the library.\n", b.Title)
	return nil
}

func (sh *shell) registerMember() error {
	in, err := sh.askAll("Enter Member Name: ")
	if err != nil {
		return err
	}
	id := sh.mgr.RegisterMember(in[0])
	fmt.Fprintf(sh.out, "Member '%s' registered successfully with ID: %s.\n", in[0], id)
	return nil
}

func (sh *shell) updateMember() error {
	in, err := sh.askAll("Enter Member ID to update: ", "Enter new member name (or leave blank): ")
	if err != nil {
		return err
	}
	if err := sh.mgr.UpdateMember(in[0], in[1]); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Member '%s' updated successfully.\n", in[0])
	return nil
}

func (sh *shell) removeMember() error {
	in, err := sh.askAll("Enter Member ID to remove: ")
	if err != nil {
		return err
	}
	m, err := sh.mgr.GetMember(in[0])
	if err != nil {
		return err
	}
	if err := sh.mgr.RemoveMember(in[0]); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Member '%s' removed from the library.\n", m.Name)
	return nil
}

func (sh *shell) borrow() error {
	in, err := sh.askAll("Enter Member ID: ", "Enter Book ID to borrow: ")
	if err != nil {
		return err
	}
	m, err := sh.mgr.GetMember(in[0])
	if err != nil {
		return err
	}
	b, err := sh.mgr.Borrow(in[0], in[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Member '%s' borrowed book '%s'. Due date is %s.\n", m.Name, b.Title, b.DueString())
	return nil
}

func (sh *shell) giveBack() error {
	in, err := sh.askAll("Enter Member ID: ", "Enter Book ID to return: ")
	if err != nil {
		return err
	}
	m, err := sh.mgr.GetMember(in[0])
	if err != nil {
		return err
	}
	b, err := sh.mgr.Return(in[0], in[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Member '%s' returned book '%s'.\n", m.Name, b.Title)
	return nil
}
