package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"library-records/library"
)

func main() {
	if err := library.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
	}
	cfg, err := library.ConfigFromEnv(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the configuration shared by every subcommand.
type app struct {
	cfg library.Config
}

func newRootCommand(cfg library.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:          "library",
		Short:        "Manage a library's books, members and loans",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfg.BooksFile, "books", cfg.BooksFile, "books file (text backend)")
	pf.StringVar(&a.cfg.MembersFile, "members", cfg.MembersFile, "members file (text backend)")
	pf.StringVar(&a.cfg.Backend, "backend", cfg.Backend, "storage backend: text or sqlite")
	pf.StringVar(&a.cfg.DBFile, "db", cfg.DBFile, "database file (sqlite backend)")
	pf.IntVar(&a.cfg.LoanDays, "loan-days", cfg.LoanDays, "loan period in days")
	pf.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(
		a.addBookCommand(),
		a.updateBookCommand(),
		a.removeBookCommand(),
		a.registerCommand(),
		a.updateMemberCommand(),
		a.removeMemberCommand(),
		a.borrowCommand(),
		a.returnCommand(),
		a.booksCommand(),
		a.membersCommand(),
		a.borrowedCommand(),
		a.overdueCommand(),
		a.popularCommand(),
		a.checkCommand(),
		a.shellCommand(),
	)
	return root
}

// run opens the configured library for the duration of fn.
func (a *app) run(cmd *cobra.Command, fn func(mgr *library.LibraryManager) error) error {
	logger, err := library.NewLogger(cmd.ErrOrStderr(), a.cfg.LogLevel)
	if err != nil {
		return err
	}
	mgr, err := a.cfg.Open(library.WithLogger(logger))
	if err != nil {
		return err
	}
	defer mgr.Close()
	return fn(mgr)
}

// mutate is run followed by a save when fn succeeds.
func (a *app) mutate(cmd *cobra.Command, fn func(mgr *library.LibraryManager) error) error {
	return a.run(cmd, func(mgr *library.LibraryManager) error {
		if err := fn(mgr); err != nil {
			return err
		}
		return mgr.Save()
	})
}
