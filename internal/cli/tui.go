package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/tui"
)

func newTUICommand(rt *runtime) *cobra.Command {
	var form search.Form

	cmd := &cobra.Command{
		Use:   "tui [query...]",
		Short: "Start the terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(); err != nil {
				return err
			}

			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			// the terminal session keeps its search snapshot in memory
			orch := app.NewOrchestrator(search.NewMemorySnapshots())
			if len(args) > 0 {
				form.Query = joinArgs(args)
			}
			orch.SetForm(form)
			if form.Query != "" {
				orch.Search(cmd.Context(), 1, false)
			}

			return tui.Run(cmd.Context(), tui.Deps{
				Orchestrator: orch,
				Favorites:    app.Favorites,
				Settings:     app.Settings,
				Details:      app.Details,
				Cover:        app.Client.URLs().CoverURL,
			})
		},
	}

	cmd.Flags().StringVar(&form.Author, "author", "", "filter by author")
	cmd.Flags().StringVar(&form.Year, "year", "", "filter by first publish year")
	cmd.Flags().StringVar(&form.Language, "language", "", "filter by language code, e.g. ENG")
	return cmd
}
