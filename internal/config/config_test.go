package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "leakscout.yaml", "concurrency: 4\nmax_bytes: 123\nexclude:\n  - docs/**\n  - \"re:\\\\.snap$\"\nscan_binary: true\nbranch: dev\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Concurrency == nil || *cfg.Concurrency != 4 {
		t.Fatalf("expected concurrency=4, got %#v", cfg.Concurrency)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.ScanBinary == nil || !*cfg.ScanBinary {
		t.Fatalf("expected scan_binary=true")
	}
	if cfg.Branch == nil || *cfg.Branch != "dev" {
		t.Fatalf("expected branch=dev, got %#v", cfg.Branch)
	}
	assert.Equal(t, []string{"docs/**", `re:\.snap$`}, cfg.Exclude)
}

func TestLoadFile_Invalid(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "bad.yml", "concurrency: [\n")
	_, err := LoadFile(p)
	assert.ErrorContains(t, err, "bad.yml")
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "leakscout.yaml", "concurrency: 1\n")
	writeTemp(t, dir, ".leakscout.yaml", "concurrency: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Concurrency == nil || *cfg.Concurrency != 7 {
		t.Fatalf("expected concurrency=7 from .leakscout.yaml, got %#v", cfg.Concurrency)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadLocal(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "leakscout")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfgDir, "config.yml")
	if err := os.WriteFile(p, []byte("concurrency: 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Concurrency == nil || *cfg.Concurrency != 9 {
		t.Fatalf("expected concurrency=9 from global config, got %#v", cfg.Concurrency)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := LoadGlobal()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestCatalog(t *testing.T) {
	cfg := FileConfig{
		Disable:  []string{"jwt"},
		Patterns: []PatternConfig{{ID: "acme_key", Regex: `acme_[a-z]{8}`, Severity: "medium"}},
	}
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	_, ok := cat.Lookup("jwt")
	assert.False(t, ok)
	p, ok := cat.Lookup("acme_key")
	require.True(t, ok)
	assert.Equal(t, "acme_key", p.Name)
	ids := cat.IDs()
	assert.Equal(t, "acme_key", ids[len(ids)-1])
}

func TestCatalog_Errors(t *testing.T) {
	_, err := FileConfig{Disable: []string{"nope"}}.Catalog()
	assert.ErrorContains(t, err, "nope")

	_, err = FileConfig{Patterns: []PatternConfig{{ID: "x", Regex: "(", Severity: "high"}}}.Catalog()
	assert.Error(t, err)

	_, err = FileConfig{Patterns: []PatternConfig{{ID: "x", Regex: "x", Severity: "urgent"}}}.Catalog()
	assert.ErrorContains(t, err, "urgent")

	_, err = FileConfig{Patterns: []PatternConfig{{ID: "aws_access_key", Regex: "x", Severity: "low"}}}.Catalog()
	assert.ErrorContains(t, err, "duplicate")
}

func TestWrite_StarterRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", ".leakscout.yml")
	require.NoError(t, Write(p, Starter(), false))
	assert.Error(t, Write(p, Starter(), false))
	require.NoError(t, Write(p, Starter(), true))

	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.Concurrency)
	assert.Equal(t, 10, *cfg.Concurrency)
	_, err = cfg.Catalog()
	assert.NoError(t, err)
}

func TestLoadLocal_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, ".leakscout.yml", "concurrency: [nope\n")
	_, err := LoadLocal(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoConfig)
}
