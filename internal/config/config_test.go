package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "WORKER_COUNT", "CHUNK_SIZE", "CHAT_TOP_K", "JOB_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.WorkerCount != 2 || cfg.MaxQueueSize != 50 {
		t.Errorf("worker defaults = %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.ChunkSize != 1200 || cfg.ChunkOverlap != 200 || cfg.MinChunkChars != 600 {
		t.Errorf("chunk defaults = %d/%d/%d", cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunkChars)
	}
	if cfg.ChatTopK != 4 || cfg.TokenBudget != 6000 {
		t.Errorf("chat defaults = %d/%d", cfg.ChatTopK, cfg.TokenBudget)
	}
	if cfg.JobTTL != 24*time.Hour {
		t.Errorf("JobTTL = %v", cfg.JobTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "7")
	t.Setenv("PROCESS_MEDIA_ITEMS", "true")
	t.Setenv("JOB_TTL", "2h")

	cfg := Load()
	if cfg.WorkerCount != 7 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
	if !cfg.ProcessMediaItems {
		t.Error("ProcessMediaItems not set")
	}
	if cfg.JobTTL != 2*time.Hour {
		t.Errorf("JobTTL = %v", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{
		APIKey:          "svc",
		AnthropicAPIKey: "llm",
		EmbeddingAPIKey: "emb",
		DatabaseURL:     "postgres://localhost/oerai",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate = %v, want nil", err)
	}

	for _, mutate := range []func(*Config){
		func(c *Config) { c.APIKey = "" },
		func(c *Config) { c.AnthropicAPIKey = "" },
		func(c *Config) { c.EmbeddingAPIKey = "" },
		func(c *Config) { c.DatabaseURL = "" },
	} {
		c := cfg
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("Validate accepted incomplete config: %+v", c)
		}
	}
}
