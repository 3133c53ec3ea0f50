package publisher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"seo_blog_writer/seo"
)

// Config is the application configuration.
type Config struct {
	ServerAddr   string     `json:"server_addr,omitempty" yaml:"server_addr" toml:"server_addr"`
	DatabasePath string     `json:"database_path,omitempty" yaml:"database_path" toml:"database_path"`
	WebsiteLink  string     `json:"website_link,omitempty" yaml:"website_link" toml:"website_link"`
	MarkerSyntax string     `json:"marker_syntax,omitempty" yaml:"marker_syntax" toml:"marker_syntax"`
	LLM          *LLMConfig `json:"llm,omitempty" yaml:"llm" toml:"llm"`
	Scoring      seo.Rules  `json:"scoring" yaml:"scoring" toml:"scoring"`
}

// LLMConfig selects and authenticates the model backend.
type LLMConfig struct {
	Provider string `json:"provider,omitempty" yaml:"provider" toml:"provider"`
	Model    string `json:"model,omitempty" yaml:"model" toml:"model"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key" toml:"api_key"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url" toml:"base_url"`
}

// Default values.
const (
	DefaultServerAddr   = ":8080"
	DefaultDatabasePath = "data/seowriter.db"
	DefaultWebsiteLink  = "https://yourwebsite.com"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ServerAddr:   DefaultServerAddr,
		DatabasePath: DefaultDatabasePath,
		WebsiteLink:  DefaultWebsiteLink,
		MarkerSyntax: seo.DefaultMarkerSyntax,
		LLM:          &LLMConfig{},
		Scoring:      seo.DefaultRules(),
	}
}

// LoadConfig reads the config file at path (JSON, or YAML/TOML by extension)
// on top of the defaults, then applies .env and environment overrides. An
// empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decodeConfig(path, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if cfg.LLM == nil {
		cfg.LLM = &LLMConfig{}
	}

	// A missing .env is fine.
	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.ServerAddr, "SERVER_ADDR")
	set(&cfg.DatabasePath, "SEOWRITER_DB")
	set(&cfg.WebsiteLink, "WEBSITE_LINK")
	set(&cfg.MarkerSyntax, "MARKER_SYNTAX")
	set(&cfg.LLM.Provider, "LLM_PROVIDER")
	set(&cfg.LLM.Model, "LLM_MODEL")
	set(&cfg.LLM.APIKey, "LLM_API_KEY")
	set(&cfg.LLM.BaseURL, "LLM_BASE_URL")
}

// Validate checks values that would otherwise fail deep inside a request.
func (c Config) Validate() error {
	if !seo.ValidMarkerSyntax(c.MarkerSyntax) {
		return fmt.Errorf("invalid marker_syntax %q: must contain exactly one %%s", c.MarkerSyntax)
	}
	if c.Scoring.Baseline <= 0 {
		return errors.New("scoring.baseline must be positive")
	}
	if c.Scoring.MinDensity > c.Scoring.MaxDensity {
		return fmt.Errorf("scoring.min_density %.2f exceeds max_density %.2f", c.Scoring.MinDensity, c.Scoring.MaxDensity)
	}
	return nil
}

// ValidateForGeneration checks the settings needed to call the model.
func (c Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.LLM == nil || c.LLM.Provider == "" {
		return errors.New("llm config missing; please set llm.provider/model/api_key in config or LLM_* env vars")
	}
	if c.LLM.Provider != "mock" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm provider %s requires an api key (llm.api_key or LLM_API_KEY)", c.LLM.Provider)
	}
	return nil
}
