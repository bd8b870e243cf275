package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
	"github.com/mrlokans/bookfinder/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	favStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#b5651d"))
)

type searchOptions struct {
	form   search.Form
	page   int
	asJSON bool
}

func newSearchCommand(rt *runtime) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search OpenLibrary and print one page of results",
		Example: `  bookfinder search the hobbit
  bookfinder search dune --author herbert --language eng
  bookfinder search tolkien --page 2 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.form.Query = joinArgs(args)
			return runSearch(cmd, rt, opts)
		},
	}

	cmd.Flags().StringVar(&opts.form.Author, "author", "", "filter by author")
	cmd.Flags().StringVar(&opts.form.Year, "year", "", "filter by first publish year")
	cmd.Flags().StringVar(&opts.form.Language, "language", "", "filter by language code, e.g. ENG")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	return cmd
}

// searchOutput is the --json shape, matching GET /api/search.
type searchOutput struct {
	Query      string `json:"query"`
	Page       int    `json:"page"`
	NumFound   int    `json:"numFound"`
	TotalPages int    `json:"totalPages"`
	Results    any    `json:"results"`
}

func runSearch(cmd *cobra.Command, rt *runtime, opts *searchOptions) error {
	if strings.TrimSpace(opts.form.Query) == "" {
		return fmt.Errorf("please enter a search term")
	}
	if err := opts.form.Validate(); err != nil {
		return err
	}
	if opts.page < 1 {
		return fmt.Errorf("page must be at least 1")
	}

	app, err := rt.app()
	if err != nil {
		return err
	}
	defer app.Close()

	filters := opts.form.Filters()
	pageSize := rt.cfg.Search.PageSize
	res, err := app.Client.Search(cmd.Context(), openlibrary.Query{
		Q:        opts.form.Query,
		Author:   filters.Author,
		Year:     filters.Year,
		Language: filters.Language,
		Page:     opts.page,
		Limit:    pageSize,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch data: %w", err)
	}
	books := search.FilterByLanguage(res.Items, filters.Language)
	totalPages := search.TotalPages(res.TotalCount, pageSize)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeJSON(out, searchOutput{
			Query:      opts.form.Query,
			Page:       opts.page,
			NumFound:   res.TotalCount,
			TotalPages: totalPages,
			Results:    books,
		})
	}

	if len(books) == 0 {
		if res.TotalCount > 0 {
			fmt.Fprintln(out, "No books found on this page, try another.")
		} else {
			fmt.Fprintln(out, "No results found.")
		}
		return nil
	}

	cards := card.List(books, app.Favorites.Keys(), app.Client.URLs().CoverURL)
	printCards(out, cards)
	fmt.Fprintf(out, "\nPage %d / %d · %s books found\n", opts.page, totalPages, humanize.Comma(int64(res.TotalCount)))
	return nil
}

func printCards(w io.Writer, cards []card.Card) {
	for i, c := range cards {
		marker := " "
		if c.Favorite {
			marker = favStyle.Render("♥")
		}
		fmt.Fprintf(w, "%s %2d. %s\n", marker, i+1, titleStyle.Render(c.Title))
		fmt.Fprintf(w, "      %s\n", c.Authors)
		fmt.Fprintf(w, "      %s\n", metaStyle.Render(fmt.Sprintf("%s · %s · %s", c.Year, c.Languages, c.ID)))
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
