package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookfinder/internal/analytics"
)

func newAnalyticsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show or override the Plausible analytics settings of the web interface",
	}
	cmd.AddCommand(
		newAnalyticsShowCommand(rt),
		newAnalyticsSetCommand(rt),
		newAnalyticsClearCommand(rt),
	)
	return cmd
}

func newAnalyticsShowCommand(rt *runtime) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings and where each comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			info := app.Analytics.GetSettingsInfo()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, info)
			}
			fmt.Fprintf(out, "enabled:    %t %s\n", info.Enabled, metaStyle.Render("("+info.EnabledSource+")"))
			fmt.Fprintf(out, "domain:     %s %s\n", info.Domain, metaStyle.Render("("+info.DomainSource+")"))
			fmt.Fprintf(out, "script:     %s %s\n", info.ScriptURL, metaStyle.Render("("+info.ScriptURLSource+")"))
			fmt.Fprintf(out, "extensions: %s %s\n", strings.Join(info.Extensions, ","), metaStyle.Render("("+info.ExtensionsSource+")"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func newAnalyticsSetCommand(rt *runtime) *cobra.Command {
	var (
		enabled    bool
		domain     string
		scriptURL  string
		extensions []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store overrides; flags that are not given keep their current source",
		Example: `  bookfinder analytics set --domain books.example.com --enabled
  bookfinder analytics set --extensions outbound-links,file-downloads`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.NFlag() == 0 {
				return fmt.Errorf("nothing to set, see --help")
			}

			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			store := app.Analytics
			if flags.Changed("extensions") {
				if err := store.SetExtensions(extensions); err != nil {
					return fmt.Errorf("%w (known: %s)", err, strings.Join(analytics.ValidExtensions, ", "))
				}
			}
			if flags.Changed("domain") {
				if err := store.SetDomain(domain); err != nil {
					return err
				}
			}
			if flags.Changed("script-url") {
				if err := store.SetScriptURL(scriptURL); err != nil {
					return err
				}
			}
			if flags.Changed("enabled") {
				if err := store.SetEnabled(enabled); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Analytics settings saved.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", false, "turn the script on or off")
	cmd.Flags().StringVar(&domain, "domain", "", "domain registered in Plausible")
	cmd.Flags().StringVar(&scriptURL, "script-url", "", "script URL, for self-hosted Plausible")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "script extensions, comma separated")
	return cmd
}

func newAnalyticsClearCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove stored overrides and fall back to the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.app()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Analytics.ClearSettings(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Analytics settings cleared.")
			return nil
		},
	}
}
