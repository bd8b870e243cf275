package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/details"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

func newDetailsCommand(rt *runtime) *cobra.Command {
	var (
		open   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "details <work-key>",
		Short: "Show a work's description, subjects and OpenLibrary page",
		Example: `  bookfinder details OL27448W
  bookfinder details /works/OL27448W --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			key := openlibrary.WorkKey(strings.TrimSpace(args[0]))
			work, err := app.Client.FetchWork(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("failed to fetch work: %w", err)
			}

			subjects := work.Subjects
			if len(subjects) > details.MaxSubjects {
				subjects = subjects[:details.MaxSubjects]
			}

			pageURL := app.Client.URLs().PageURL(key)
			if open {
				// opening is recorded as a visit
				pageURL, err = app.Details.Open(cmd.Context(), entities.Book{Key: key, Title: work.Title})
				if err != nil {
					rt.logger.Warn("Failed to record visit", zap.Error(err))
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{
					"work":     work,
					"subjects": subjects,
					"pageUrl":  pageURL,
				})
			}

			fmt.Fprintln(out, titleStyle.Render(work.Title))
			if work.Description != "" {
				fmt.Fprintf(out, "\n%s\n", work.Description)
			}
			if len(subjects) > 0 {
				fmt.Fprintf(out, "\nSubjects: %s\n", strings.Join(subjects, ", "))
			} else {
				fmt.Fprintln(out, "\nNo subjects available.")
			}
			fmt.Fprintf(out, "\n%s\n", pageURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "record the visit as when opening the page from the web interface")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
