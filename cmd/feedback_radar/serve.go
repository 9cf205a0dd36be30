package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgarber/feedback-radar/internal/config"
	"github.com/jgarber/feedback-radar/internal/llm"
	"github.com/jgarber/feedback-radar/internal/pipeline"
	"github.com/jgarber/feedback-radar/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Serve analysis runs over a REST API. Runs execute asynchronously; clients poll for completion and download results as JSON or CSV.",
	RunE:  runServe,
}

var serverAddr string

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	serveCmd.Flags().StringVar(&serverAddr, "addr", "", "Listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API bearer token",
	Long:  "Mint a signed bearer token for the HTTP API using the configured JWT secret.",
	RunE: func(_ *cobra.Command, _ []string) error {
		secret := os.Getenv("JWT_SECRET")
		token, err := server.IssueToken(secret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, token)
		return nil
	},
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(tokenCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())
	if serverAddr != "" {
		cfg.ServerAddr = serverAddr
	}

	runner := func(ctx context.Context, runCfg config.Config) (*pipeline.Result, error) {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), runCfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		defer func() { _ = client.Close() }()

		sources, err := pipeline.BuildSources(runCfg)
		if err != nil {
			return nil, err
		}
		return pipeline.NewAnalyzer(runCfg, client, sources).Run(ctx)
	}

	srv := server.New(server.Config{
		Addr:      cfg.ServerAddr,
		JWTSecret: cfg.JWTSecret,
		Base:      cfg,
	}, runner)

	return srv.Start(cmd.Context())
}
