package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"VolDash/internal/di"
	"VolDash/pkg/config"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "voldash",
	Short: "Implied volatility and crash probability dashboard",
	Long: `voldash serves an interactive dashboard over five precomputed CSV tables:
IV surface, crash probabilities, RND and MND modes, and option prices.

Without a subcommand it behaves like "voldash serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the tables and serve the dashboard over HTTP",
	RunE:  runServe,
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Print the ticker, expiry and date domains of the IV table",
	RunE:  runDomains,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "config file path")
	rootCmd.AddCommand(serveCmd, domainsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file. The default path may be absent, in which
// case defaults and environment overrides apply.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Wire DI: loads every table before the server starts
	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	// Run application (blocks until signal)
	return app.Run()
}
