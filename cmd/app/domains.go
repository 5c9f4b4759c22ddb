package main

import (
	"fmt"
	"io"

	"VolDash/internal/di"
	"VolDash/internal/usecase"

	"github.com/spf13/cobra"
)

func runDomains(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// keep stdout for the tree
	cfg.Log.Output = "stderr"

	dash, err := di.InitializeDashboard(cfg)
	if err != nil {
		return fmt.Errorf("dashboard initialization failed: %w", err)
	}
	return printDomains(cmd.OutOrStdout(), dash)
}

// printDomains writes every ticker with its expiries and their dates as an
// indented tree.
func printDomains(w io.Writer, dash *usecase.Dashboard) error {
	tickers := dash.Domains("", "").Tickers
	if len(tickers) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	for _, t := range tickers {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
		for _, e := range dash.Domains(t, "").Expiries {
			dates := dash.Domains(t, e).Dates
			if _, err := fmt.Fprintf(w, "  %s (%d dates)\n", e, len(dates)); err != nil {
				return err
			}
			for _, d := range dates {
				if _, err := fmt.Fprintf(w, "    %s\n", d); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
