package ingest

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saxtech/taxingest/blobstore"
)

// Config holds the full service configuration.
type Config struct {
	Listen   string `yaml:"listen"`
	StateDB  string `yaml:"state_db"`
	Title    int    `yaml:"title"`
	Schedule string `yaml:"schedule"` // Go duration; "" disables the scheduler

	USCBase  string `yaml:"usc_base"`
	ECFRBase string `yaml:"ecfr_base"`

	ChunkTarget  int `yaml:"chunk_target"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	Blob   blobstore.Config `yaml:"blob"`
	Search SearchConfig     `yaml:"search"`

	MCPTransport string `yaml:"mcp_transport"` // "" | "stdio"
	LogLevel     string `yaml:"log_level"`
}

// SearchConfig locates the Azure AI Search indexer to trigger after
// uploads. Empty indexer disables triggering.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Indexer  string `yaml:"indexer"`
}

// DefaultConfig returns sane defaults: Title 26, weekly schedule.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		StateDB:  "data/taxingest.db",
		Title:    26,
		Schedule: "168h",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values parse.
func (c *Config) Validate() error {
	if c.StateDB == "" {
		return fmt.Errorf("state_db is required")
	}
	if c.Title <= 0 {
		return fmt.Errorf("title must be > 0")
	}
	if c.Blob.Bucket == "" {
		return fmt.Errorf("blob.bucket is required")
	}
	if _, err := c.ScheduleInterval(); err != nil {
		return err
	}
	if c.Search.Indexer != "" && c.Search.Endpoint == "" {
		return fmt.Errorf("search.endpoint is required when search.indexer is set")
	}
	switch c.MCPTransport {
	case "", "stdio":
	default:
		return fmt.Errorf("unsupported mcp_transport %q (use stdio)", c.MCPTransport)
	}
	return nil
}

// ScheduleInterval parses the schedule duration. Zero means disabled.
func (c *Config) ScheduleInterval() (time.Duration, error) {
	if c.Schedule == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Schedule)
	if err != nil {
		return 0, fmt.Errorf("schedule: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("schedule must be positive")
	}
	return d, nil
}
