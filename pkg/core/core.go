package core

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/leakscout/leakscout/internal/detectors"
	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/source/factory"
	"github.com/leakscout/leakscout/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type (
	Finding = types.Finding
	Source  = source.Source
	Repo    = source.Repo
	Tree    = source.Tree
	Entry   = source.Entry
)

// Errors callers can test with errors.Is.
var (
	ErrNotFound   = source.ErrNotFound
	ErrTransient  = source.ErrTransient
	ErrRepository = engine.ErrRepository
)

type options struct {
	src      Source
	token    string
	apiURL   string
	maxBytes int64
	logger   *zerolog.Logger
}

// Option customises ScanRepository.
type Option func(*options)

// WithSource replaces the default GitHub API source.
func WithSource(src Source) Option { return func(o *options) { o.src = src } }

// WithToken authenticates the default source. GITHUB_TOKEN is used otherwise.
func WithToken(token string) Option { return func(o *options) { o.token = token } }

// WithAPIURL points the default source at a GitHub Enterprise server.
func WithAPIURL(u string) Option { return func(o *options) { o.apiURL = u } }

// WithMaxBytes skips files larger than n bytes. 0 disables the cap, which is
// also the default.
func WithMaxBytes(n int64) Option { return func(o *options) { o.maxBytes = n } }

// WithLogger sends scan progress and warnings to l.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = &l } }

// ScanRepository scans branch of owner/repo and returns the findings ordered
// by path and line, plus warnings describing files that could not be read.
// An empty branch means "main" and concurrency <= 0 means 10. A missing
// repository or branch is returned as an error wrapping ErrRepository.
func ScanRepository(ctx context.Context, owner, repo, branch string, excludePatterns []string, concurrency int, opts ...Option) ([]Finding, []string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	src := o.src
	if src == nil {
		token := o.token
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		var err error
		src, err = factory.New(ctx, factory.Config{Kind: factory.KindGitHub, Token: token, APIURL: o.apiURL})
		if err != nil {
			return nil, nil, err
		}
	}
	return engine.Scan(ctx, src, engine.Config{
		Repo:        Repo{Owner: owner, Name: repo, Branch: branch},
		Exclude:     excludePatterns,
		Concurrency: concurrency,
		MaxBytes:    o.maxBytes,
		Logger:      o.logger,
	})
}

// ScanContent applies the built-in catalog to text as if it were the file
// at path.
func ScanContent(text, path string) []Finding {
	return engine.ScanContent(nil, text, path)
}

// PatternIDs returns the IDs of the built-in patterns in match order.
func PatternIDs() []string { return detectors.Default().IDs() }
