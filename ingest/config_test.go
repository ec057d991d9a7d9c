package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(`
listen: ":9090"
state_db: "data/test.db"
schedule: "24h"
blob:
  bucket: taxdocs
  endpoint: http://localhost:9000
search:
  endpoint: https://search.example.net
  api_key: key
  indexer: tax-indexer
`), 0644)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Title != 26 {
		t.Errorf("title default = %d", cfg.Title)
	}
	if cfg.Blob.Bucket != "taxdocs" {
		t.Errorf("bucket = %q", cfg.Blob.Bucket)
	}
	d, err := cfg.ScheduleInterval()
	if err != nil {
		t.Fatal(err)
	}
	if d != 24*time.Hour {
		t.Errorf("interval = %v", d)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		c := DefaultConfig()
		c.Blob.Bucket = "b"
		return c
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c := base()
	c.Blob.Bucket = ""
	if err := c.Validate(); err == nil {
		t.Error("missing bucket accepted")
	}

	c = base()
	c.Schedule = "often"
	if err := c.Validate(); err == nil {
		t.Error("bad schedule accepted")
	}

	c = base()
	c.Search.Indexer = "idx"
	if err := c.Validate(); err == nil {
		t.Error("indexer without endpoint accepted")
	}

	c = base()
	c.MCPTransport = "quic"
	if err := c.Validate(); err == nil {
		t.Error("unsupported mcp transport accepted")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error")
	}
}
