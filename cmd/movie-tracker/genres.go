// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List TMDB movie genres and their ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider(cmd.Context())
		if err != nil {
			return err
		}
		list, err := provider.Genres(cmd.Context())
		if err != nil {
			return err
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		for _, g := range list {
			fmt.Printf("%-6d  %s\n", g.ID, g.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}
