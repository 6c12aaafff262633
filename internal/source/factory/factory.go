package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/source/gitclone"
	"github.com/leakscout/leakscout/internal/source/github"
)

// Source kinds accepted by New.
const (
	KindGitHub = "github"
	KindClone  = "clone"
)

// Config is the subset of configuration needed to create a source.
type Config struct {
	Kind     string
	Token    string
	APIURL   string
	CloneURL string
}

// New creates a source for cfg.Kind. An empty kind selects the GitHub API.
func New(ctx context.Context, cfg Config) (source.Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindGitHub:
		s, err := github.New(ctx, cfg.Token, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create github source: %w", err)
		}
		return s, nil
	case KindClone:
		return gitclone.New(cfg.CloneURL, cfg.Token), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want %s or %s)", cfg.Kind, KindGitHub, KindClone)
	}
}

// Kinds lists the accepted source kinds for help output.
func Kinds() []string {
	return []string{KindGitHub, KindClone}
}
