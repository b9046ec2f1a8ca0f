// Package cmd holds the portfolio command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
)

var (
	profile     string
	contentFile string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Single-page developer portfolio",
	Long: `Serves a single-page developer portfolio with a sticky navigation bar,
scroll-triggered entrance animations and a contact form that logs what
visitors send. Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "built-in content profile (overrides PORTFOLIO_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "YAML content file (overrides PORTFOLIO_CONTENT_FILE)")
	rootCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides PORT)")
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if profile != "" {
		cfg.Profile = profile
	}
	if contentFile != "" {
		cfg.ContentFile = contentFile
	}
	return cfg, nil
}

func loadContent(cfg config.Config) (*content.Content, error) {
	if cfg.ContentFile != "" {
		return content.Load(cfg.ContentFile)
	}
	return content.Builtin(cfg.Profile)
}
