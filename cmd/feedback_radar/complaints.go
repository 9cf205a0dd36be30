package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgarber/feedback-radar/internal/config"
	"github.com/jgarber/feedback-radar/internal/export"
	"github.com/jgarber/feedback-radar/internal/llm"
	"github.com/jgarber/feedback-radar/internal/observability"
	"github.com/jgarber/feedback-radar/internal/pipeline"
)

var complaintsCmd = &cobra.Command{
	Use:   "complaints",
	Short: "Extract the most frequent complaints about a product",
	Long:  "Fetch feedback from the selected platforms, cluster near-duplicate complaints into canonical entries, and export the top entries by occurrence count.",
	RunE:  runComplaints,
}

var topN int

func init() {
	complaintsCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	complaintsCmd.Flags().StringVarP(&product, "product", "p", "", "Product name to analyze")
	complaintsCmd.Flags().StringVar(&platformsCSV, "platforms", "", "Comma-separated platforms (reddit,youtube,twitter,web)")
	complaintsCmd.Flags().IntVar(&posts, "posts", 0, "Number of posts to analyze per platform")
	complaintsCmd.Flags().StringVar(&strategy, "strategy", "", "Similarity strategy (lexical or embedding)")
	complaintsCmd.Flags().IntVarP(&topN, "top", "n", 10, "Number of top complaints to export")
	complaintsCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for CSV files")
	complaintsCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print formatted result tables")

	rootCmd.AddCommand(complaintsCmd)
}

func runComplaints(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// The embedding strategy is the only part of this pipeline that needs
	// the provider; the lexical strategy runs fully offline.
	var client llm.Client
	if cfg.Strategy == config.StrategyEmbedding {
		gemini, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		defer func() { _ = gemini.Close() }()
		client = gemini
	}

	sources, err := pipeline.BuildSources(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.NewAnalyzer(cfg, client, sources).RunComplaints(ctx)
	if err != nil {
		return err
	}

	prefix := strings.ReplaceAll(cfg.Product, " ", "_")
	outPath := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_top_%d_complaints.csv", prefix, topN))
	if err := export.SaveCSV(outPath, func(w io.Writer) error {
		return export.WriteTopComplaints(w, result.Complaints, topN)
	}); err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintTopComplaints(result.Complaints)
	}

	fmt.Fprintf(os.Stdout, "Analyzed %d items (%d skipped), %d canonical complaints\n",
		result.Fetched, result.Skipped, len(result.Complaints))
	fmt.Fprintf(os.Stdout, "Top complaints written to %s\n", outPath)
	return nil
}
