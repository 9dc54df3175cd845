package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search titles through the running service",
	}
	searchCmd.AddCommand(newSearchMovieCommand(ctx))
	searchCmd.AddCommand(newSearchTVCommand(ctx))
	return searchCmd
}

func newSearchMovieCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "movie <title>",
		Short: "Search for movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.serviceClient()
			if err != nil {
				return err
			}
			results, err := client.SearchMovies(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return renderSearchResults(cmd, results, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw provider records as JSON")
	return cmd
}

func newSearchTVCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tv <title>",
		Short: "Search for TV shows by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.serviceClient()
			if err != nil {
				return err
			}
			results, err := client.SearchTVShows(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return renderSearchResults(cmd, results, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw provider records as JSON")
	return cmd
}

// providerRecord decodes the handful of provider fields the table view shows.
// Records stay raw everywhere else; this view is display only.
type providerRecord struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

func (r providerRecord) displayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	if r.Name != "" {
		return r.Name
	}
	return "(untitled)"
}

func (r providerRecord) released() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

func (r providerRecord) rating() string {
	if r.VoteAverage <= 0 {
		return ""
	}
	return strconv.FormatFloat(r.VoteAverage, 'f', 1, 64)
}

func renderSearchResults(cmd *cobra.Command, results []json.RawMessage, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches found")
		return nil
	}
	rows := make([][]string, 0, len(results))
	for _, raw := range results {
		var record providerRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			record.displayTitle(),
			record.released(),
			record.rating(),
		})
	}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Released", "Rating"}, rows, aligns))
	return nil
}
