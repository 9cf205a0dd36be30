// Package main provides the entry point for the feedback-radar CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feedback_radar",
	Short: "Product feedback analyzer",
	Long:  "feedback-radar collects user feedback about a product from social platforms, reduces it to de-duplicated complaint summaries with occurrence counts, and aggregates classified feedback into a feature/feedback-type matrix.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
