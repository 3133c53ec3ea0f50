package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"seo_blog_writer/generator"
	"seo_blog_writer/publisher"
)

var (
	postsLimit int
	exportOut  string
	exportFmt  string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Manage saved posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		posts, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer posts.Close()

		list, err := posts.List(ctx, postsLimit)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			rows = append(rows, []string{p.ID, p.Title, p.Slug, strconv.Itoa(p.Score), p.CreatedAt.Local().Format("2006-01-02 15:04")})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"ID", "Title", "Slug", "Score", "Created"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	},
}

var postsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		posts, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer posts.Close()

		post, err := posts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		printArticle(cmd.OutOrStdout(), post.Article)
		return nil
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		posts, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer posts.Close()
		return posts.Delete(ctx, args[0])
	},
}

var postsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved post as HTML, Markdown or PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		posts, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer posts.Close()

		post, err := posts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = post.ID + "." + exportFmt
		}
		return writeExport(post.Article, exportFmt, out)
	},
}

func init() {
	postsListCmd.Flags().IntVar(&postsLimit, "limit", 20, "maximum number of posts (0 for all)")
	postsExportCmd.Flags().StringVar(&exportFmt, "format", "html", "export format: html, md or pdf")
	postsExportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default <id>.<format>)")
	postsCmd.AddCommand(postsListCmd, postsShowCmd, postsDeleteCmd, postsExportCmd)
	rootCmd.AddCommand(postsCmd)
}

// writeExport renders article in format and writes it to path.
func writeExport(article generator.Article, format, path string) error {
	var data []byte
	switch format {
	case "html":
		page, err := publisher.RenderPage(article)
		if err != nil {
			return err
		}
		data = []byte(page)
	case "md", "markdown":
		md, err := publisher.RenderMarkdown(article)
		if err != nil {
			return err
		}
		data = []byte(md + "\n")
	case "pdf":
		var buf bytes.Buffer
		if err := publisher.RenderPDF(article, &buf); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
