package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"seo_blog_writer/generator"
	"seo_blog_writer/publisher"
	"seo_blog_writer/store"
)

const defaultConfigPath = "config/config.json"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "seowriter",
	Short: "Generate, analyze and export SEO blog articles",
	Long: `seowriter asks a language model for an SEO article in a fixed section
layout, splits the reply into sections, styles its headings and scores it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (.json, .yaml or .toml; default "+defaultConfigPath+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose || os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (publisher.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	cfg, err := publisher.LoadConfig(path)
	if err != nil {
		return publisher.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func layoutFor(cfg publisher.Config) generator.Layout {
	layout := generator.DefaultLayout(cfg.MarkerSyntax)
	layout.Rules = cfg.Scoring
	return layout
}

func buildAgent(cfg publisher.Config) (*generator.Agent, error) {
	if err := cfg.ValidateForGeneration(); err != nil {
		return nil, err
	}
	llm, err := generator.NewLLM(generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}, cfg.MarkerSyntax)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, layoutFor(cfg))
}

func openStore(ctx context.Context, cfg publisher.Config) (*store.Store, error) {
	if cfg.DatabasePath == "" {
		return nil, errors.New("database_path is required")
	}
	slog.Debug("opening database", "path", cfg.DatabasePath)
	s, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}
