// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/movie-tracker/internal/library"
	"github.com/pdiddy/movie-tracker/internal/search"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run an interactive search session",
	Long: `Shell keeps one search session open and reads commands from standard
input, so you can change the search kind and filters, load more pages, pick a
person, and add results to your collection without starting over.

Type 'help' in the shell for the command list.`,
	RunE: runShellCmd,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShellCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}
	lib, closeLib, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()

	orch := search.New(provider, app.log.Logger)
	defer orch.Close()

	sh := newShell(orch, lib, provider, os.Stdout)
	return sh.run(ctx, os.Stdin)
}

const shellHelp = `Commands:
  search <text>               search by the current kind (no text: browse by filters)
  kind movie|actor|director   change what 'search' looks for
  genre <id|name> [exclude]   set the genre filter; 'genre off' clears it
  year <yyyy> [exclude]       set the release year filter; 'year off' clears it
  more                        load the next page of movie results
  select <person id>          list a person's credits
  add <movie id>...           add result movies to your collection
  library                     list your collection with the current filters
  show                        print the current results
  help                        show this help
  quit                        leave the shell`

// shell is one interactive search session.
type shell struct {
	orch     *search.Orchestrator
	lib      *library.Library
	genres   genreLister
	out      io.Writer
	names    map[int]string
	kind     types.SearchKind
	criteria types.FilterCriteria
}

func newShell(orch *search.Orchestrator, lib *library.Library, genres genreLister, out io.Writer) *shell {
	return &shell{orch: orch, lib: lib, genres: genres, out: out, kind: types.KindMovie}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "movie-tracker shell. Type 'help' for commands.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s> ", s.kind)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		quit, err := s.exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line. It reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "search", "s":
		intent := types.SearchIntent{Query: strings.Join(args, " "), Kind: s.kind, Criteria: s.criteria}
		if err := s.orch.Submit(ctx, intent); err != nil {
			return false, err
		}
		s.show(ctx)
	case "kind":
		if len(args) != 1 {
			return false, errors.New("usage: kind movie|actor|director")
		}
		if err := s.orch.ChangeKind(types.SearchKind(args[0])); err != nil {
			return false, err
		}
		s.kind = s.orch.Snapshot().Kind
	case "genre":
		return false, s.setGenre(ctx, args)
	case "year":
		return false, s.setYear(args)
	case "more":
		if err := s.orch.LoadMore(ctx); err != nil {
			return false, err
		}
		s.show(ctx)
	case "select":
		ids, err := parseIDs(args)
		if err != nil || len(ids) != 1 {
			return false, errors.New("usage: select <person id>")
		}
		if err := s.orch.SelectPerson(ctx, ids[0]); err != nil {
			return false, err
		}
		s.show(ctx)
	case "add":
		ids, err := parseIDs(args)
		if err != nil {
			return false, err
		}
		if len(ids) == 0 {
			return false, errors.New("usage: add <movie id>...")
		}
		return false, addToLibrary(ctx, s.lib, s.orch, ids, s.out)
	case "library", "lib":
		formatEntries(s.lib.Browse(s.criteria), s.out)
	case "show":
		s.show(ctx)
	default:
		return false, fmt.Errorf("unknown command %q: type 'help'", cmd)
	}
	return false, nil
}

func (s *shell) show(ctx context.Context) {
	s.orch.Wait()
	snap := s.orch.Snapshot()
	if s.names == nil && len(snap.Movies) > 0 {
		s.names = genreNames(ctx, s.genres)
	}
	search.FormatTable(snap, s.names, s.out)
}

func (s *shell) setGenre(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: genre <id|name> [include|exclude] or genre off")
	}
	c := s.criteria
	if strings.EqualFold(args[0], "off") {
		c.Genre, c.GenreMode = 0, ""
		return s.applyCriteria(c)
	}

	name, mode := args, "include"
	if last := strings.ToLower(args[len(args)-1]); len(args) > 1 && (last == "include" || last == "exclude") {
		name, mode = args[:len(args)-1], last
	}
	id, err := resolveGenre(ctx, s.genres, strings.Join(name, " "))
	if err != nil {
		return err
	}
	c.Genre = id
	c.GenreMode = types.FilterMode(mode)
	return s.applyCriteria(c)
}

func (s *shell) setYear(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: year <yyyy> [include|exclude] or year off")
	}
	c := s.criteria
	if strings.EqualFold(args[0], "off") {
		c.Year, c.YearMode = "", ""
		return s.applyCriteria(c)
	}
	mode := types.ModeInclude
	if len(args) == 2 {
		m, err := types.ParseFilterMode(args[1])
		if err != nil {
			return err
		}
		mode = m
	}
	c.Year, c.YearMode = args[0], mode
	return s.applyCriteria(c)
}

// applyCriteria hands c to the session, which clears the current results.
func (s *shell) applyCriteria(c types.FilterCriteria) error {
	if err := s.orch.EditCriteria(c); err != nil {
		return err
	}
	s.criteria = c
	fmt.Fprintf(s.out, "filters: %s\n", describeCriteria(c))
	return nil
}

func describeCriteria(c types.FilterCriteria) string {
	if c.IsEmpty() {
		return "none"
	}
	var parts []string
	if c.HasGenre() {
		parts = append(parts, fmt.Sprintf("genre %d (%s)", c.Genre, modeOrInclude(c.GenreMode)))
	}
	if c.HasYear() {
		parts = append(parts, fmt.Sprintf("year %s (%s)", c.Year, modeOrInclude(c.YearMode)))
	}
	return strings.Join(parts, ", ")
}

func modeOrInclude(m types.FilterMode) types.FilterMode {
	if m == "" {
		return types.ModeInclude
	}
	return m
}
