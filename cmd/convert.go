// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// fetch → sanitize → localize assets → normalize math → markdown →
// restore anchors → write.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xhiroga/ar5iv2md/core/assets"
	"github.com/xhiroga/ar5iv2md/core/bibanchor"
	"github.com/xhiroga/ar5iv2md/core/fetch"
	"github.com/xhiroga/ar5iv2md/core/mathtex"
	"github.com/xhiroga/ar5iv2md/core/metadata"
	"github.com/xhiroga/ar5iv2md/core/normalize"
	"github.com/xhiroga/ar5iv2md/core/output"
	"github.com/xhiroga/ar5iv2md/core/resolve"
	"github.com/xhiroga/ar5iv2md/core/sanitize"
)

var flagDownloadDir string

var convertCmd = &cobra.Command{
	Use:   "convert <source>",
	Short: "Convert an ar5iv paper into Markdown with local assets",
	Long: `Convert fetches an ar5iv paper page, rewrites image references to locally
downloaded copies, replaces MathML with TeX, and writes the result as
<download-dir>/<paper-id>/README.md.

The source may be a paper identifier, a bare filename on the ar5iv host,
or a full URL:

  ar5iv2md convert 1910.06709
  ar5iv2md convert https://ar5iv.org/html/1910.06709 --download-dir ./papers`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&flagDownloadDir, "download-dir", "", "Output directory (default: current directory)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]
	downloadDir := flagDownloadDir
	if downloadDir == "" {
		downloadDir = viper.GetString("download_dir")
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:   time.Duration(viper.GetInt("timeout_seconds")) * time.Second,
		UserAgent: viper.GetString("user_agent"),
	})
	ctx := context.Background()

	// Fetch the document. This is the only fatal failure mode.
	docURL := resolve.SourceURL(source)
	htmlText, baseURL, err := fetcher.FetchDocument(ctx, docURL)
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	writer := output.New(downloadDir, resolve.Basename(docURL))
	skip, err := writer.ShouldSkip()
	if err != nil {
		return err
	}
	if skip {
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: output directory %s is not empty, skipping\n", writer.BaseDir)
		fmt.Fprintln(cmd.OutOrStdout(), writer.MarkdownPath())
		return nil
	}
	if err := writer.Prepare(); err != nil {
		return err
	}

	sanitize.Strip(doc)

	localizer := assets.New(fetcher, writer.AssetsDir(), cmd.ErrOrStderr())
	assetCount := localizer.Localize(ctx, doc, baseURL)

	// Capture what the Markdown conversion would discard.
	meta := metadata.FromDOM(doc, source, baseURL)
	meta.AssetCount = assetCount
	bibIDs := bibanchor.Harvest(doc)

	frags := mathtex.Normalize(doc)

	markdown, err := normalize.New().Normalize(doc)
	if err != nil {
		return err
	}
	markdown = frags.Expand(markdown)
	markdown = bibanchor.Restore(markdown, bibIDs)

	if err := writer.WriteMarkdown(markdown); err != nil {
		return err
	}
	if err := meta.Write(writer.MetadataPath()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), writer.MarkdownPath())
	return nil
}
