package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgarber/feedback-radar/internal/aggregate"
	"github.com/jgarber/feedback-radar/internal/config"
	"github.com/jgarber/feedback-radar/internal/export"
	"github.com/jgarber/feedback-radar/internal/llm"
	"github.com/jgarber/feedback-radar/internal/observability"
	"github.com/jgarber/feedback-radar/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full feedback analysis for a product",
	Long:  "Fetch feedback from the selected platforms, classify each item into the feature/feedback-type matrix, cluster complaint texts, and export the results as CSV.",
	RunE:  runAnalyze,
}

var (
	configPath   string
	product      string
	platformsCSV string
	posts        int
	strategy     string
	outDir       string
	verbose      bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	analyzeCmd.Flags().StringVarP(&product, "product", "p", "", "Product name to analyze")
	analyzeCmd.Flags().StringVar(&platformsCSV, "platforms", "", "Comma-separated platforms (reddit,youtube,twitter,web)")
	analyzeCmd.Flags().IntVar(&posts, "posts", 0, "Number of posts to analyze per platform")
	analyzeCmd.Flags().StringVar(&strategy, "strategy", "", "Similarity strategy (lexical or embedding)")
	analyzeCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for CSV files")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print formatted result tables")

	rootCmd.AddCommand(analyzeCmd)
}

// buildConfig merges the config file, flags, environment, and defaults.
func buildConfig() (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if product != "" {
		cfg.Product = product
	}
	if platformsCSV != "" {
		cfg.Platforms = strings.Split(platformsCSV, ",")
	}
	if posts > 0 {
		cfg.Posts = posts
	}
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	if verbose {
		cfg.Verbose = true
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	if cfg.Product == "" {
		return cfg, fmt.Errorf("--product is required")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("analyze requires GEMINI_API_KEY for feedback classification")
	}

	ctx := cmd.Context()
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	sources, err := pipeline.BuildSources(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.NewAnalyzer(cfg, client, sources).Run(ctx)
	if err != nil {
		return err
	}

	if err := exportAnalysis(cfg, result); err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintMatrix(aggregate.Features(), aggregate.FeedbackTypes(), func(f, t string) int {
			return result.Matrix[f][t]
		})
		printer.PrintDistribution(aggregate.Features(), result.Percentages)
		printer.PrintSourceTally(result.SourceTally)
		printer.PrintTopComplaints(result.Complaints)
	}

	fmt.Fprintf(os.Stdout, "Analyzed %d items (%d skipped), %d accepted feedback records, %d canonical complaints\n",
		result.Fetched, result.Skipped, len(result.Details), len(result.Complaints))
	fmt.Fprintf(os.Stdout, "Results written to %s\n", cfg.OutDir)
	return nil
}

func exportAnalysis(cfg config.Config, result *pipeline.Result) error {
	prefix := strings.ReplaceAll(cfg.Product, " ", "_")

	detailsPath := filepath.Join(cfg.OutDir, prefix+"_feedback.csv")
	if err := export.SaveCSV(detailsPath, func(w io.Writer) error {
		return export.WriteDetails(w, result.Details)
	}); err != nil {
		return err
	}

	matrixPath := filepath.Join(cfg.OutDir, prefix+"_feedback_matrix.csv")
	if err := export.SaveCSV(matrixPath, func(w io.Writer) error {
		return export.WriteMatrixCSV(w, aggregate.Features(), aggregate.FeedbackTypes(), func(f, t string) int {
			return result.Matrix[f][t]
		})
	}); err != nil {
		return err
	}

	complaintsPath := filepath.Join(cfg.OutDir, prefix+"_complaints.csv")
	return export.SaveCSV(complaintsPath, func(w io.Writer) error {
		return export.WriteComplaints(w, result.Complaints)
	})
}
