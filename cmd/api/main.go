// Package main is the entry point for the movies API server.
// It wires together configuration, the movie store and the HTTP router.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoideee/movies-api/internal/config"
	"github.com/aoideee/movies-api/internal/cors"
	"github.com/aoideee/movies-api/internal/data"
)

// appVersion is the current version of the API, shown in logs and the health check.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config  config.Config // Effective configuration
	logger  *slog.Logger  // Structured logger that writes to stdout
	models  data.Models   // In-memory movie store
	origins *cors.Policy  // Cross-origin allow-list
}

func main() {
	if err := newRootCommand(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Running it without a subcommand starts the
// server.
func newRootCommand(getenv func(string) string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "movies-api",
		Short:         "Serve the in-memory movies collection over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create a structured logger that writes human-readable text to stdout.
			logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

			settings, err := loadConfig(cmd, configPath, getenv)
			if err != nil {
				logger.Error(err.Error())
				return err
			}

			app, err := newApplication(settings, logger)
			if err != nil {
				logger.Error(err.Error())
				return err
			}

			if err := app.serve(); err != nil {
				logger.Error(err.Error())
				return err
			}
			return nil
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flags.Int("port", defaults.Port, "Server port (overrides PORT)")
	flags.String("env", defaults.Env, "Environment (development|staging|production)")
	flags.String("dataset", "", "Initial movies file (.json, .yaml or .yml); bundled dataset when empty")
	flags.StringSlice("cors-trusted-origins", defaults.CORS.TrustedOrigins, "Origins allowed to make cross-origin requests")
	flags.Bool("limiter-enabled", defaults.Limiter.Enabled, "Enable per-IP rate limiting")
	flags.Float64("limiter-rps", defaults.Limiter.RPS, "Rate limiter requests per second")
	flags.Int("limiter-burst", defaults.Limiter.Burst, "Rate limiter burst size")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appVersion)
		},
	})

	return cmd
}

// loadConfig layers defaults, the optional config file, the environment and
// finally any flag the operator set explicitly.
func loadConfig(cmd *cobra.Command, configPath string, getenv func(string) string) (config.Config, error) {
	settings := config.Default()

	if configPath != "" {
		if err := config.LoadFile(&settings, configPath); err != nil {
			return settings, err
		}
	}
	if err := config.ApplyEnv(&settings, getenv); err != nil {
		return settings, err
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("port") {
		settings.Port, err = flags.GetInt("port")
	}
	if err == nil && flags.Changed("env") {
		settings.Env, err = flags.GetString("env")
	}
	if err == nil && flags.Changed("dataset") {
		settings.Dataset, err = flags.GetString("dataset")
	}
	if err == nil && flags.Changed("cors-trusted-origins") {
		settings.CORS.TrustedOrigins, err = flags.GetStringSlice("cors-trusted-origins")
	}
	if err == nil && flags.Changed("limiter-enabled") {
		settings.Limiter.Enabled, err = flags.GetBool("limiter-enabled")
	}
	if err == nil && flags.Changed("limiter-rps") {
		settings.Limiter.RPS, err = flags.GetFloat64("limiter-rps")
	}
	if err == nil && flags.Changed("limiter-burst") {
		settings.Limiter.Burst, err = flags.GetInt("limiter-burst")
	}
	if err != nil {
		return settings, err
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// newApplication loads the initial dataset and bundles the dependencies the
// handlers share.
func newApplication(settings config.Config, logger *slog.Logger) (*applicationDependencies, error) {
	movies, err := data.LoadMovies(settings.Dataset)
	if err != nil {
		return nil, err
	}

	dataset := settings.Dataset
	if dataset == "" {
		dataset = "bundled"
	}
	logger.Info("movie store seeded", "dataset", dataset, "movies", len(movies))

	return &applicationDependencies{
		config:  settings,
		logger:  logger,
		models:  data.NewModels(movies),
		origins: cors.New(settings.CORS.TrustedOrigins...),
	}, nil
}
