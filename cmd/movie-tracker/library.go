// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/movie-tracker/internal/acquire"
	"github.com/pdiddy/movie-tracker/internal/library"
	"github.com/pdiddy/movie-tracker/internal/tmdb"
	"github.com/pdiddy/movie-tracker/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage your movie collection (list, rate, review, save, export)",
	Long: `Library manages the local collection of movies added from search results.
Rate and review entries, then save them to lock the rating and compute the
combined rating. Edit a saved entry to change it again.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the collection, optionally filtered by genre and year",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lib, closeLib, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()

	// Genre names only resolve when an API key is present; ids always work.
	var genres genreLister
	if app.cfg.TMDB.APIKey != "" {
		if p, err := newProvider(ctx); err == nil {
			genres = p
		}
	}
	criteria, err := criteriaFromFlags(ctx, cmd, genres)
	if err != nil {
		return err
	}

	entries := lib.Browse(criteria)
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return library.Export(entries, library.FormatJSON, os.Stdout)
	}
	formatEntries(entries, os.Stdout)
	return nil
}

// --- show subcommand ---

var libraryShowCmd = &cobra.Command{
	Use:   "show <movie-id>",
	Short: "Show one collection entry in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEntry(cmd, args, func(lib *library.Library, id int) error {
			e, ok := lib.Get(id)
			if !ok {
				return fmt.Errorf("movie %d: %w", id, library.ErrNotInLibrary)
			}
			data, err := json.MarshalIndent(e, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		})
	},
}

// --- rate, review, save, edit, remove subcommands ---

var libraryRateCmd = &cobra.Command{
	Use:   "rate <movie-id> <1-10>",
	Short: "Set your rating; pass an empty string to clear it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEntry(cmd, args, func(lib *library.Library, id int) error {
			e, err := lib.Rate(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if e.UserRating == 0 {
				fmt.Printf("Cleared rating for %s\n", e.Title)
			} else {
				fmt.Printf("Rated %s %d/10\n", e.Title, e.UserRating)
			}
			return nil
		})
	},
}

var libraryReviewCmd = &cobra.Command{
	Use:   "review <movie-id> <text>",
	Short: "Set your review text",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEntry(cmd, args, func(lib *library.Library, id int) error {
			e, err := lib.Review(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Reviewed %s\n", e.Title)
			return nil
		})
	},
}

var librarySaveCmd = &cobra.Command{
	Use:   "save <movie-id>",
	Short: "Lock the rating and review and compute the combined rating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEntry(cmd, args, func(lib *library.Library, id int) error {
			e, err := lib.Save(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s (combined rating %.1f)\n", e.Title, e.CombinedRating)
			return nil
		})
	},
}

var libraryEditCmd = &cobra.Command{
	Use:   "edit <movie-id>",
	Short: "Unlock a saved entry so it can be changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEntry(cmd, args, func(lib *library.Library, id int) error {
			e, err := lib.Edit(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Editing %s\n", e.Title)
			return nil
		})
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:     "remove <movie-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a movie from the collection",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEntry(cmd, args, func(lib *library.Library, id int) error {
			if err := lib.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Removed %d\n", id)
			return nil
		})
	},
}

// --- export and import subcommands ---

var libraryExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the collection as YAML or JSON",
	Long: `Export writes every collection entry to path, choosing JSON for a .json
extension and YAML otherwise. With no path the collection is written to
standard output in the --format format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	lib, closeLib, err := openLibrary(cmd.Context())
	if err != nil {
		return err
	}
	defer closeLib()

	if len(args) == 0 {
		format, _ := cmd.Flags().GetString("format")
		return library.Export(lib.List(), format, os.Stdout)
	}
	if err := library.ExportFile(lib.List(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d movies to %s\n", lib.Len(), args[0])
	return nil
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Add entries from a file written by export",
	Long: `Import reads a YAML or JSON export and adds every entry whose movie is not
already in the collection, keeping its rating, review, and saved state.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := library.ReadExport(args[0])
		if err != nil {
			return err
		}
		lib, closeLib, err := openLibrary(cmd.Context())
		if err != nil {
			return err
		}
		defer closeLib()

		n, err := lib.Import(cmd.Context(), entries)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d of %d entries\n", n, len(entries))
		return nil
	},
}

// --- posters subcommand ---

var libraryPostersCmd = &cobra.Command{
	Use:   "posters [movie-id...]",
	Short: "Download poster images for collection entries",
	Long: `Posters downloads the TMDB poster of each collection entry, or of the given
entries, into posters.dir (default <data_dir>/posters) as <movie-id>.jpg.
Posters already on disk are skipped.`,
	RunE: runLibraryPosters,
}

func runLibraryPosters(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	lib, closeLib, err := openLibrary(ctx)
	if err != nil {
		return err
	}
	defer closeLib()

	var movies []types.Movie
	if len(ids) == 0 {
		for _, e := range lib.List() {
			movies = append(movies, e.Movie)
		}
	}
	for _, id := range ids {
		e, ok := lib.Get(id)
		if !ok {
			return fmt.Errorf("movie %d: %w", id, library.ErrNotInLibrary)
		}
		movies = append(movies, e.Movie)
	}
	if len(movies) == 0 {
		fmt.Println("Your collection is empty.")
		return nil
	}

	cfg := app.cfg.Posters
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(app.cfg.Library.DataDir, acquire.DirName)
	}
	images := tmdb.NewClient(app.cfg.TMDB, nil, app.log.Logger)
	client := &http.Client{Timeout: cfg.Timeout}

	ctx = componentLogger("acquire").WithContext(ctx)
	res := acquire.AcquireBatch(ctx, client, movies, images.ImageURL, cfg, os.Stdout)
	if res.HasFailures() {
		return fmt.Errorf("%d poster(s) failed to download", res.Failed)
	}
	return nil
}

func init() {
	addFilterFlags(libraryListCmd)
	libraryListCmd.Flags().Bool("json", false, "output entries as JSON")

	libraryExportCmd.Flags().String("format", library.FormatYAML, "output format without a path: yaml or json")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryRateCmd)
	libraryCmd.AddCommand(libraryReviewCmd)
	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryEditCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryPostersCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryImportCmd)
	rootCmd.AddCommand(libraryCmd)
}

// withEntry parses the movie id in args[0], opens the collection, and runs fn.
func withEntry(cmd *cobra.Command, args []string, fn func(lib *library.Library, id int) error) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("expected one movie id, got %q", args[0])
	}
	lib, closeLib, err := openLibrary(cmd.Context())
	if err != nil {
		return err
	}
	defer closeLib()
	return fn(lib, ids[0])
}

// formatEntries writes collection entries as a table to w.
func formatEntries(entries []types.LibraryEntry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No movies in your collection match.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-44s  %-4s  %-4s  %-8s  %s\n", "ID", "Title", "Year", "Mine", "Combined", "Saved")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, e := range entries {
		mine, combined, saved := "-", "-", ""
		if e.UserRating > 0 {
			mine = fmt.Sprintf("%d", e.UserRating)
		}
		if e.IsSaved {
			combined = fmt.Sprintf("%.1f", e.CombinedRating)
			saved = "yes"
		}
		title := e.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		fmt.Fprintf(w, "%-8d  %-44s  %-4s  %-4s  %-8s  %s\n", e.ID, title, e.Year(), mine, combined, saved)
	}
	fmt.Fprintf(w, "\n%d movies\n", len(entries))
}
