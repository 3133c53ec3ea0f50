package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"seo_blog_writer/generator"
)

var (
	genTopic   string
	genLine    string
	genWords   int
	genWebsite string
	genSave    bool
	genOut     string
	genFormat  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an SEO article for a topic",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "blog topic (required)")
	generateCmd.Flags().StringVar(&genLine, "line", "", "line that must appear in the first 100 words")
	generateCmd.Flags().IntVar(&genWords, "words", generator.DefaultWords, "target word count")
	generateCmd.Flags().StringVar(&genWebsite, "website", "", "website link (overrides config)")
	generateCmd.Flags().BoolVar(&genSave, "save", false, "save the article to the database")
	generateCmd.Flags().StringVar(&genOut, "out", "", "write an export to this file")
	generateCmd.Flags().StringVar(&genFormat, "format", "html", "export format: html, md or pdf")
	_ = generateCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	agent, err := buildAgent(cfg)
	if err != nil {
		return err
	}

	spec := generator.Spec{
		Topic:        genTopic,
		RequiredLine: genLine,
		Words:        genWords,
		WebsiteLink:  cfg.WebsiteLink,
	}
	if genWebsite != "" {
		spec.WebsiteLink = genWebsite
	}

	slog.Info("generating article", "topic", spec.Topic, "provider", cfg.LLM.Provider)
	article, err := agent.Generate(ctx, spec, nil, nil, "")
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	printArticle(cmd.OutOrStdout(), article)

	if genSave {
		posts, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer posts.Close()
		post, err := posts.Save(ctx, article)
		if err != nil {
			return err
		}
		slog.Info("article saved", "id", post.ID)
	}

	if genOut != "" {
		if err := writeExport(article, genFormat, genOut); err != nil {
			return err
		}
		slog.Info("export written", "path", genOut, "format", genFormat)
	}
	return nil
}
