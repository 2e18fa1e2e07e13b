package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

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
	if err := newImportCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newImportCommand(cfg library.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "import_books FILE",
		Short:        "Add books listed as title,author,genre lines",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return err
			}
			defer f.Close()

			logger, err := library.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			manager, err := cfg.Open(library.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("open library: %w", err)
			}
			defer manager.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importing books from %s...\n", args[0])
			added, failed, err := importBooks(manager, f, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nImport complete!\n")
			fmt.Fprintf(out, "Successfully imported: %d books\n", added)
			fmt.Fprintf(out, "Errors: %d\n", failed)
			if added == 0 {
				return nil
			}
			return manager.Save()
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BooksFile, "books", cfg.BooksFile, "books file (text backend)")
	f.StringVar(&cfg.MembersFile, "members", cfg.MembersFile, "members file (text backend)")
	f.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: text or sqlite")
	f.StringVar(&cfg.DBFile, "db", cfg.DBFile, "database file (sqlite backend)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	return cmd
}

// importBooks adds one book per "title,author,genre" line of r. Blank lines
// and lines starting with '#' are skipped; other lines with the wrong number
// of fields or an empty title are reported and counted as failures.
func importBooks(mgr *library.LibraryManager, r io.Reader, out io.Writer) (added, failed int, err error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 || strings.TrimSpace(fields[0]) == "" {
			fmt.Fprintf(out, "line %d: ERROR - want title,author,genre\n", lineNo)
			failed++
			continue
		}
		title := strings.TrimSpace(fields[0])
		author := strings.TrimSpace(fields[1])
		genre := strings.TrimSpace(fields[2])

		id := mgr.AddBook(title, author, genre)
		fmt.Fprintf(out, "Importing: %s by %s... SUCCESS (ID: %s)\n", title, author, id)
		added++
	}
	return added, failed, sc.Err()
}
