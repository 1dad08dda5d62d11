package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/text-warden/internal/config"
	"github.com/sevigo/text-warden/internal/lint"
)

var regionsJSON bool

var regionsCmd = &cobra.Command{
	Use:   "regions [locale]",
	Short: "Lists the linting regions available for a locale",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath())
		if err != nil {
			return err
		}

		locale := cfg.Linting.Locale
		if len(args) == 1 {
			locale = args[0]
		}

		regions, err := lint.Regions(locale)
		if err != nil {
			return err
		}
		best := lint.BestMatchingRegion(locale, cfg.Linting.PreferredLocales)

		out := cmd.OutOrStdout()
		if regionsJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(map[string]any{
				"locale":     locale,
				"configured": cfg.Linting.Region,
				"best":       best,
				"regions":    regions,
			})
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "REGION\tDIALECT\t")
		for _, region := range regions {
			dialect, err := lint.ResolveDialect(locale, region, cfg.Linting.PreferredLocales)
			if err != nil {
				return err
			}
			marker := ""
			if region == best {
				marker = "(best match)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", region, dialect, marker)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	regionsCmd.Flags().BoolVar(&regionsJSON, "json", false, "Output regions as JSON")
	rootCmd.AddCommand(regionsCmd)
}
