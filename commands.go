package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"library-records/library"
)

// ------------------ Books ------------------

func (a *app) addBookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-book TITLE AUTHOR GENRE",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				id := mgr.AddBook(args[0], args[1], args[2])
				fmt.Fprintf(cmd.OutOrStdout(), "Book '%s' added successfully with ID: %s.\n", args[0], id)
				return nil
			})
		},
	}
}

func (a *app) updateBookCommand() *cobra.Command {
	var title, author, genre string
	cmd := &cobra.Command{
		Use:   "update-book ID",
		Short: "Change a book's title, author or genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				if err := mgr.UpdateBook(args[0], title, author, genre); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Book '%s' updated successfully.\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().StringVar(&genre, "genre", "", "new genre")
	return cmd
}

func (a *app) removeBookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-book ID",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				b, err := mgr.GetBook(args[0])
				if err != nil {
					return err
				}
				if err := mgr.RemoveBook(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Book '%s' removed from the library.\n", b.Title)
				return nil
			})
		},
	}
}

func (a *app) booksCommand() *cobra.Command {
	var available, unavailable, asJSON bool
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if available && unavailable {
				return errors.New("--available and --unavailable are mutually exclusive")
			}
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				w := cmd.OutOrStdout()
				switch {
				case available:
					return renderBookList(w, "Available Books:", "No books available for borrowing.", mgr.AvailableBooks(), asJSON)
				case unavailable:
					return renderBookList(w, "Unavailable (Borrowed) Books:", "All books are available.", mgr.UnavailableBooks(), asJSON)
				default:
					return renderCatalog(w, mgr.GetAllBooks(), asJSON)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&available, "available", false, "only books nobody holds")
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "only books currently borrowed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// ------------------ Members ------------------

func (a *app) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register NAME",
		Short: "Register a new member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				id := mgr.RegisterMember(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Member '%s' registered successfully with ID: %s.\n", args[0], id)
				return nil
			})
		},
	}
}

func (a *app) updateMemberCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "update-member ID",
		Short: "Change a member's name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				if err := mgr.UpdateMember(args[0], name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Member '%s' updated successfully.\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	return cmd
}

func (a *app) removeMemberCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member ID",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				m, err := mgr.GetMember(args[0])
				if err != nil {
					return err
				}
				if err := mgr.RemoveMember(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Member '%s' removed from the library.\n", m.Name)
				return nil
			})
		},
	}
}

func (a *app) membersCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List members and what they hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				return renderMembers(cmd.OutOrStdout(), mgr.GetAllMembers(), asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// ------------------ Circulation ------------------

func (a *app) borrowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow MEMBER_ID BOOK_ID",
		Short: "Lend a book to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				m, err := mgr.GetMember(args[0])
				if err != nil {
					return err
				}
				b, err := mgr.Borrow(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Member '%s' borrowed book '%s'. Due date is %s.\n", m.Name, b.Title, b.DueString())
				return nil
			})
		},
	}
}

func (a *app) returnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "return MEMBER_ID BOOK_ID",
		Short: "Take a book back from a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(mgr *library.LibraryManager) error {
				m, err := mgr.GetMember(args[0])
				if err != nil {
					return err
				}
				b, err := mgr.Return(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Member '%s' returned book '%s'.\n", m.Name, b.Title)
				return nil
			})
		},
	}
}

// ------------------ Reports ------------------

func (a *app) borrowedCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "borrowed",
		Short: "List borrowed books with due dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				return renderLoans(cmd.OutOrStdout(), mgr.BorrowedBooks(), asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) overdueCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List books past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				return renderOverdue(cmd.OutOrStdout(), mgr.OverdueBooks(), asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) popularCommand() *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most borrowed books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				return renderPopular(cmd.OutOrStdout(), mgr.MostBorrowed(limit), asJSON)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", library.DefaultMostBorrowedLimit, "number of books to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report load diagnostics and book/member inconsistencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(mgr *library.LibraryManager) error {
				w := cmd.OutOrStdout()
				for _, d := range mgr.LoadDiagnostics() {
					fmt.Fprintf(w, "load: %v\n", d)
				}
				problems := mgr.CheckIntegrity()
				for _, p := range problems {
					fmt.Fprintf(w, "integrity: %v\n", p)
				}
				if len(problems) > 0 {
					return fmt.Errorf("%d integrity problem(s) found", len(problems))
				}
				fmt.Fprintln(w, "No integrity problems found.")
				return nil
			})
		},
	}
}
