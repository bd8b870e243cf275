package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookfinder/internal/card"
	"github.com/mrlokans/bookfinder/internal/exporters"
)

func newFavoritesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "List, export, import and remove favorites",
	}
	cmd.AddCommand(
		newFavoritesListCommand(rt),
		newFavoritesExportCommand(rt),
		newFavoritesImportCommand(rt),
		newFavoritesRemoveCommand(rt),
	)
	return cmd
}

func newFavoritesListCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print favorites, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			favs := app.Favorites.List()
			if len(favs) == 0 {
				fmt.Fprintln(out, "No favorites yet.")
				return nil
			}

			cards := make([]card.Card, 0, len(favs))
			for _, f := range favs {
				cards = append(cards, card.New(f.Book(), true, nil))
			}
			printCards(out, cards)

			fmt.Fprintf(out, "\n%s %s", humanize.Comma(int64(len(favs))), pluralize(len(favs), "favorite", "favorites"))
			if at, ok := app.Settings.LastVisited(); ok {
				fmt.Fprintf(out, " · last opened a book page %s", humanize.Time(at))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newFavoritesExportCommand(rt *runtime) *cobra.Command {
	var (
		format string
		output string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write favorites as YAML, JSON or Markdown",
		Example: `  bookfinder favorites export
  bookfinder favorites export --format json --output favorites.json
  bookfinder favorites export --dir ~/vault/Books`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporters.ParseFormat(format)
			if err != nil {
				return err
			}

			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			favs := app.Favorites.List()
			urls := app.Client.URLs()

			// one note per favorite, for an Obsidian vault
			if dir != "" {
				result, err := exporters.NewMarkdownExporter(dir, urls).Export(favs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s %s to %s\n",
					humanize.Comma(int64(result.FavoritesProcessed)), pluralize(result.FavoritesProcessed, "favorite", "favorites"), dir)
				if result.FavoritesFailed > 0 {
					return fmt.Errorf("%d favorites could not be written", result.FavoritesFailed)
				}
				return nil
			}

			w := cmd.OutOrStdout()
			if output != "" {
				if !cmd.Flags().Changed("format") {
					f = exporters.FormatFromPath(output)
				}
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			return exporters.Encode(w, f, favs, urls)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&dir, "dir", "", "write one markdown note per favorite into this directory")
	cmd.MarkFlagsMutuallyExclusive("output", "dir")
	return cmd
}

func newFavoritesImportCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace favorites with an exported YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			favs, err := exporters.Decode(data, exporters.FormatFromPath(args[0]))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Favorites.Replace(favs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s\n", humanize.Comma(int64(len(favs))), pluralize(len(favs), "favorite", "favorites"))
			return nil
		},
	}
}

func newFavoritesRemoveCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a favorite by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			fav, ok := app.Favorites.Get(args[0])
			if !ok {
				return fmt.Errorf("no favorite with key %q", args[0])
			}
			if _, err := app.Favorites.Toggle(fav.Book()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", fav.Title)
			return nil
		},
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
