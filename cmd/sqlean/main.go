// Package main implements the sqlean binary, an interactive SQL tutor
// that runs lessons against disposable in-memory SQLite databases.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqlean/sqlean/internal/config"
	"github.com/sqlean/sqlean/internal/content"
	"github.com/sqlean/sqlean/internal/dataset"
)

var (
	version = "dev"
	commit  = "unknown"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "sqlean",
		Short:   "sqlean - learn SQL by writing SQL",
		Long:    "sqlean is an interactive SQL tutor. Each lesson gives you a fresh\ndatabase, an exercise, and instant feedback on the query you write.",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (YAML or JSON)")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newLessonsCommand())
	rootCmd.AddCommand(newDatasetsCommand())
	rootCmd.AddCommand(newCheckCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadEnvironment loads config, course content, and the dataset builder,
// the shared setup for every subcommand.
func loadEnvironment() (*config.Config, *content.Repository, *dataset.Builder, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	repo, err := content.Load(cfg.ContentDir, cfg.ManifestFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load course content: %w", err)
	}
	builder := dataset.NewBuilder(dataset.NewFSSource(cfg.DatasetsDir))
	return cfg, repo, builder, nil
}
