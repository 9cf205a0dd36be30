// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Strategy names accepted by the similarity engine selection.
const (
	StrategyLexical   = "lexical"
	StrategyEmbedding = "embedding"
)

// Config represents the analyzer configuration. It can be loaded from a
// JSON file; missing values use defaults or must be provided via CLI flags.
// API keys are normally supplied through the environment, not the file.
type Config struct {
	// Analysis
	Product   string   `json:"product,omitempty"`
	Platforms []string `json:"platforms,omitempty" validate:"dive,oneof=reddit youtube twitter web"`
	Posts     int      `json:"posts,omitempty" validate:"gte=0"`
	SeedURLs  []string `json:"seed_urls,omitempty" validate:"dive,url"`

	// Clustering
	Strategy             string  `json:"strategy,omitempty" validate:"omitempty,oneof=lexical embedding"`
	SimilarityThreshold  float64 `json:"similarity_threshold,omitempty" validate:"gte=0,lte=1"`
	MinKeywordOverlap    int     `json:"min_keyword_overlap,omitempty" validate:"gte=0"`
	ClusterUncategorized *bool   `json:"cluster_uncategorized,omitempty"`

	// Credentials
	GeminiAPIKey       string `json:"-"`
	YouTubeAPIKey      string `json:"-"`
	TwitterBearerToken string `json:"-"`
	RedditUserAgent    string `json:"reddit_user_agent,omitempty"`

	// Output
	OutDir  string `json:"out_dir,omitempty"`
	Verbose bool   `json:"verbose,omitempty"`

	// Server
	ServerAddr string `json:"server_addr,omitempty"`
	JWTSecret  string `json:"-"`

	// Browser fallback for JavaScript-heavy pages
	UseBrowser bool `json:"use_browser,omitempty"`
}

// Default tunables. The similarity threshold and keyword-overlap minimum
// are empirical; both stay configurable rather than hard-coded at use sites.
const (
	DefaultPosts               = 10
	DefaultSimilarityThreshold = 0.85
	DefaultMinKeywordOverlap   = 2
	DefaultServerAddr          = ":8080"
	DefaultRedditUserAgent     = "feedback-radar/1.0"
)

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Platforms:           []string{"reddit"},
		Posts:               DefaultPosts,
		Strategy:            StrategyLexical,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinKeywordOverlap:   DefaultMinKeywordOverlap,
		OutDir:              ".",
		ServerAddr:          DefaultServerAddr,
		RedditUserAgent:     DefaultRedditUserAgent,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays credentials and secrets from the environment. Empty
// variables leave existing values untouched.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("TWITTER_BEARER_TOKEN"); v != "" {
		c.TwitterBearerToken = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.RedditUserAgent = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("FEEDBACK_RADAR_VERBOSE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Verbose = parsed
		}
	}
}

// Validate checks configuration values against their struct tags plus the
// cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Strategy == StrategyEmbedding && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: embedding strategy requires GEMINI_API_KEY")
	}
	for _, p := range c.Platforms {
		if p == "youtube" && c.YouTubeAPIKey == "" {
			return fmt.Errorf("config error: youtube platform requires YOUTUBE_API_KEY")
		}
		if p == "twitter" && c.TwitterBearerToken == "" {
			return fmt.Errorf("config error: twitter platform requires TWITTER_BEARER_TOKEN")
		}
		if p == "web" && len(c.SeedURLs) == 0 {
			return fmt.Errorf("config error: web platform requires seed_urls")
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Product == "" {
		result.Product = defaults.Product
	}
	if len(result.Platforms) == 0 {
		result.Platforms = defaults.Platforms
	}
	if result.Posts == 0 {
		result.Posts = defaults.Posts
	}
	if result.Strategy == "" {
		result.Strategy = defaults.Strategy
	}
	if result.SimilarityThreshold == 0 {
		result.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if result.MinKeywordOverlap == 0 {
		result.MinKeywordOverlap = defaults.MinKeywordOverlap
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.ServerAddr == "" {
		result.ServerAddr = defaults.ServerAddr
	}
	if result.RedditUserAgent == "" {
		result.RedditUserAgent = defaults.RedditUserAgent
	}
	return result
}
