package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/leakscout/leakscout/internal/detectors"
)

// FileConfig is the on-disk YAML configuration shape for leakscout.
// Pointer fields distinguish "unset" from zero values so that precedence
// can fall through to the next layer.
type FileConfig struct {
	Branch      *string  `yaml:"branch,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`
	ExcludeFile *string  `yaml:"exclude_file,omitempty"`
	Concurrency *int     `yaml:"concurrency,omitempty"`
	MaxBytes    *int64   `yaml:"max_bytes,omitempty"`
	ScanBinary  *bool    `yaml:"scan_binary,omitempty"`

	Source   *string `yaml:"source,omitempty"`
	APIURL   *string `yaml:"api_url,omitempty"`
	CloneURL *string `yaml:"clone_url,omitempty"`

	Format  *string `yaml:"format,omitempty"`
	FailOn  *string `yaml:"fail_on,omitempty"`
	NoColor *bool   `yaml:"no_color,omitempty"`
	Dedupe  *bool   `yaml:"dedupe,omitempty"`
	Redact  *bool   `yaml:"redact,omitempty"`

	// Disable lists built-in pattern IDs to turn off.
	Disable []string `yaml:"disable,omitempty"`
	// Patterns are appended after the built-in catalog.
	Patterns []PatternConfig `yaml:"patterns,omitempty"`
}

// PatternConfig declares a custom secret pattern.
type PatternConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name,omitempty"`
	Regex    string `yaml:"regex"`
	Severity string `yaml:"severity"`
}

// ErrNoConfig is returned by LoadLocal and LoadGlobal when no file exists.
var ErrNoConfig = errors.New("no config file")

// LocalNames are the repo-local config file names, in search order.
var LocalNames = []string{".leakscout.yml", ".leakscout.yaml", "leakscout.yml", "leakscout.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a config file in dir.
// It supports .leakscout.yml/.yaml and leakscout.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, fmt.Errorf("%w in %s", ErrNoConfig, dir)
}

// GlobalDir returns $XDG_CONFIG_HOME/leakscout or ~/.config/leakscout.
func GlobalDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := homedir.Dir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "leakscout"), nil
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	dir, err := GlobalDir()
	if err != nil {
		return cfg, err
	}
	p := filepath.Join(dir, "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, fmt.Errorf("%w in %s", ErrNoConfig, dir)
}

// Catalog derives the pattern catalog: the built-ins minus Disable, plus
// Patterns. Invalid entries are reported with their ID.
func (fc FileConfig) Catalog() (*detectors.Catalog, error) {
	cat := detectors.Default()
	if len(fc.Disable) > 0 {
		var err error
		if cat, err = cat.Without(fc.Disable...); err != nil {
			return nil, err
		}
	}
	if len(fc.Patterns) == 0 {
		return cat, nil
	}
	extra := make([]detectors.Pattern, 0, len(fc.Patterns))
	for _, pc := range fc.Patterns {
		p, err := detectors.Compile(pc.ID, pc.Name, pc.Regex, pc.Severity)
		if err != nil {
			return nil, err
		}
		extra = append(extra, p)
	}
	return cat.With(extra...)
}

// Starter is the document written by "config init".
func Starter() FileConfig {
	branch, concurrency, maxBytes := "main", 10, int64(1<<20)
	source, format, failOn := "github", "text", "low"
	return FileConfig{
		Branch:      &branch,
		Exclude:     []string{"docs/**", "re:_test\\.go$"},
		Concurrency: &concurrency,
		MaxBytes:    &maxBytes,
		Source:      &source,
		Format:      &format,
		FailOn:      &failOn,
		Patterns: []PatternConfig{
			{ID: "internal_token", Name: "Internal Service Token", Regex: `itk_[0-9a-f]{32}`, Severity: "high"},
		},
	}
}

// Write marshals cfg to path, refusing to overwrite unless force is set.
func Write(path string, cfg FileConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}
