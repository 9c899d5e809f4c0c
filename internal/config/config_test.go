package config

import (
	"errors"
	"testing"
	"time"

	"github.com/samorobo/twitter-trends-bot/internal/trends"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CX_ID", "cx")
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CX_ID", "")

	_, err := Load("testdata/does-not-exist.env")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestLoad_MissingOneCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CX_ID", "")

	_, err := Load("testdata/does-not-exist.env")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setCredentials(t)
	t.Setenv("TRENDS_REGION", "")
	t.Setenv("TRENDS_COUNTRY", "")
	t.Setenv("TRENDS_STATIC_TOPICS", "")
	t.Setenv("TRENDS_OUTPUT_FILE", "")
	t.Setenv("TRENDS_WAIT_TIMEOUT", "")
	t.Setenv("TRENDS_ENRICH_DELAY", "")

	cfg, err := Load("testdata/does-not-exist.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Region != "nigeria" {
		t.Errorf("expected default region nigeria, got %q", cfg.Region)
	}
	if cfg.Country != "Nigeria" {
		t.Errorf("expected default country Nigeria, got %q", cfg.Country)
	}
	if cfg.OutputFile != "nigeria_trends_results.json" {
		t.Errorf("unexpected default output file %q", cfg.OutputFile)
	}
	if cfg.WaitTimeout != 10*time.Second {
		t.Errorf("expected 10s wait timeout, got %v", cfg.WaitTimeout)
	}
	if cfg.EnrichDelay != 1*time.Second {
		t.Errorf("expected 1s enrich delay, got %v", cfg.EnrichDelay)
	}
	if len(cfg.StaticTopics) != len(trends.DefaultStaticTopics) {
		t.Errorf("expected default static topics, got %v", cfg.StaticTopics)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("TRENDS_REGION", "ghana")
	t.Setenv("TRENDS_COUNTRY", "Ghana")
	t.Setenv("TRENDS_STATIC_TOPICS", "Accra, Cedi ,Black Stars")
	t.Setenv("TRENDS_WAIT_TIMEOUT", "5s")
	t.Setenv("TRENDS_ENRICH_DELAY", "500ms")

	cfg, err := Load("testdata/does-not-exist.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Region != "ghana" || cfg.Country != "Ghana" {
		t.Errorf("expected region overrides, got %q/%q", cfg.Region, cfg.Country)
	}
	if len(cfg.StaticTopics) != 3 || cfg.StaticTopics[1] != "Cedi" {
		t.Errorf("expected trimmed static topics, got %v", cfg.StaticTopics)
	}
	if cfg.WaitTimeout != 5*time.Second || cfg.EnrichDelay != 500*time.Millisecond {
		t.Errorf("expected duration overrides, got %v/%v", cfg.WaitTimeout, cfg.EnrichDelay)
	}
}

func TestLoad_EmptyRegionRejected(t *testing.T) {
	setCredentials(t)

	if err := validate(Config{APIKey: "key", SearchEngineID: "cx", Region: ""}); err == nil {
		t.Fatal("expected error for empty region")
	}
}
