// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
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

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search TMDB for movies, or for an actor or director and their credits",
	Long: `Search queries TMDB by movie title, or by person name with --kind actor or
--kind director. Results are deduplicated and narrowed by the genre and year
filters. A movie search with no query browses popular movies matching the
filters.

For person searches, pass --select with a person id from the results to list
their acting or directing credits. Use --more to fetch additional pages and
--add to put result movies into your collection.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("kind", "movie", "what to search: movie, actor, or director")
	addFilterFlags(searchCmd)
	searchCmd.Flags().Int("more", 0, "number of additional result pages to load")
	searchCmd.Flags().Int("select", 0, "person id whose credits to list (actor and director searches)")
	searchCmd.Flags().IntSlice("add", nil, "movie ids from the results to add to the collection")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("out", "", "save the results to a YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	criteria, err := criteriaFromFlags(ctx, cmd, provider)
	if err != nil {
		return err
	}
	intent := types.SearchIntent{
		Query:    strings.Join(args, " "),
		Kind:     types.SearchKind(kind),
		Criteria: criteria,
	}

	orch := search.New(provider, app.log.Logger)
	defer orch.Close()

	if err := orch.Submit(ctx, intent); err != nil {
		return err
	}
	orch.Wait()

	more, _ := cmd.Flags().GetInt("more")
	for i := 0; i < more; i++ {
		err := orch.LoadMore(ctx)
		if errors.Is(err, search.ErrNoMoreResults) {
			break
		}
		if err != nil {
			return err
		}
		orch.Wait()
	}

	if personID, _ := cmd.Flags().GetInt("select"); personID > 0 {
		if err := orch.SelectPerson(ctx, personID); err != nil {
			return err
		}
		orch.Wait()
	}

	snap := orch.Snapshot()
	if err := printSnapshot(ctx, cmd, snap, provider); err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := search.WriteResultFile(out, snap); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results saved to %s\n", out)
	}

	if ids, _ := cmd.Flags().GetIntSlice("add"); len(ids) > 0 {
		if err := addResults(ctx, orch, ids); err != nil {
			return err
		}
	}

	if snap.State == search.StateError {
		return errors.New(snap.Error)
	}
	return nil
}

func printSnapshot(ctx context.Context, cmd *cobra.Command, snap search.Snapshot, genres genreLister) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return search.FormatJSON(snap, os.Stdout)
	}
	var names map[int]string
	if len(snap.Movies) > 0 {
		names = genreNames(ctx, genres)
	}
	search.FormatTable(snap, names, os.Stdout)
	return nil
}

// resultLookup finds a movie in the current search results.
type resultLookup interface {
	Result(id int) (types.Movie, bool)
}

func addResults(ctx context.Context, results resultLookup, ids []int) error {
	lib, closeLib, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()
	return addToLibrary(ctx, lib, results, ids, os.Stdout)
}

func addToLibrary(ctx context.Context, lib *library.Library, results resultLookup, ids []int, w io.Writer) error {
	for _, id := range ids {
		m, ok := results.Result(id)
		if !ok {
			return fmt.Errorf("movie %d is not in the results", id)
		}
		_, err := lib.Add(ctx, m)
		switch {
		case errors.Is(err, library.ErrAlreadyInLibrary):
			fmt.Fprintf(w, "%s is already in your collection\n", m.Title)
		case err != nil:
			return err
		default:
			fmt.Fprintf(w, "Added %s\n", m.Title)
		}
	}
	return nil
}
