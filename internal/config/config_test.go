package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Driver: "memory",
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver: "redis",
			Addrs:  []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing redis addrs")
	}
}

func TestValidate_MemoryDriverNeedsNoAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "postgres"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_InconsistentThresholds(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
		Matching: MatchingConfig{HighMaxScore: 0.3, MediumMaxScore: 0.4},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for high threshold below medium threshold")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Matching.KeywordWeight != 0.5 {
		t.Errorf("expected KeywordWeight=0.5, got %v", cfg.Matching.KeywordWeight)
	}
	if cfg.Matching.TextWeight != 0.3 {
		t.Errorf("expected TextWeight=0.3, got %v", cfg.Matching.TextWeight)
	}
	if cfg.Matching.ProblemTypeBonus != 0.2 {
		t.Errorf("expected ProblemTypeBonus=0.2, got %v", cfg.Matching.ProblemTypeBonus)
	}
	if cfg.Matching.MinScore != 0.3 {
		t.Errorf("expected MinScore=0.3, got %v", cfg.Matching.MinScore)
	}
	if cfg.Matching.MaxResults != 5 {
		t.Errorf("expected MaxResults=5, got %d", cfg.Matching.MaxResults)
	}
	if cfg.Matching.HighMaxScore != 0.7 || cfg.Matching.HighAvgScore != 0.5 {
		t.Errorf("expected high thresholds 0.7/0.5, got %v/%v", cfg.Matching.HighMaxScore, cfg.Matching.HighAvgScore)
	}
	if cfg.Matching.MediumMaxScore != 0.4 || cfg.Matching.MediumAvgScore != 0.3 {
		t.Errorf("expected medium thresholds 0.4/0.3, got %v/%v", cfg.Matching.MediumMaxScore, cfg.Matching.MediumAvgScore)
	}
	if cfg.Catalog.CacheTTLSec != 300 {
		t.Errorf("expected CacheTTLSec=300, got %d", cfg.Catalog.CacheTTLSec)
	}
	if cfg.Generation.TimeoutSec != 90 {
		t.Errorf("expected Generation.TimeoutSec=90, got %d", cfg.Generation.TimeoutSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "memory", ReadinessTimeout: 15},
		Matching: MatchingConfig{KeywordWeight: 0.6, TextWeight: 0.2, MinScore: 0.4, MaxResults: 3},
		Catalog:  CatalogConfig{CacheTTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Matching.KeywordWeight != 0.6 {
		t.Errorf("expected KeywordWeight=0.6, got %v", cfg.Matching.KeywordWeight)
	}
	if cfg.Matching.MaxResults != 3 {
		t.Errorf("expected MaxResults=3, got %d", cfg.Matching.MaxResults)
	}
	if cfg.Catalog.CacheTTLSec != 60 {
		t.Errorf("expected CacheTTLSec=60, got %d", cfg.Catalog.CacheTTLSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DEVISD_TEST_KEY", "secret")

	in := []byte("api_key: ${DEVISD_TEST_KEY}\nmodel: ${DEVISD_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: gpt-4o-mini\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
