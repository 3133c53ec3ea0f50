package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
)

var (
	analyzeTopic   string
	analyzeSyntax  string
	analyzeJSON    bool
	analyzeWebsite string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Split and score a saved model reply",
	Long: `Read a model reply from a file (or stdin when the argument is "-" or
missing), split it into sections, render headings and print the SEO score.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTopic, "topic", "", "topic used for the Wikipedia link")
	analyzeCmd.Flags().StringVar(&analyzeSyntax, "marker-syntax", "", "section marker syntax, e.g. \"### %s:\" (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeWebsite, "website", "", "website link (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the article as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeSyntax != "" {
		if !seo.ValidMarkerSyntax(analyzeSyntax) {
			return fmt.Errorf("invalid --marker-syntax %q: must contain exactly one %%s", analyzeSyntax)
		}
		cfg.MarkerSyntax = analyzeSyntax
	}

	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	website := cfg.WebsiteLink
	if analyzeWebsite != "" {
		website = analyzeWebsite
	}
	article, err := generator.PostProcess(raw, generator.Spec{Topic: analyzeTopic, WebsiteLink: website}, layoutFor(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	}
	printArticle(out, article)
	return nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
