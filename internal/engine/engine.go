package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/leakscout/leakscout/internal/detectors"
	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/types"
)

const (
	// DefaultConcurrency bounds in-flight content retrievals when Config
	// leaves it unset.
	DefaultConcurrency = 10
	// DefaultMaxBytes is the per-file size cap used by the CLI.
	DefaultMaxBytes int64 = 1 << 20
)

// ErrRepository wraps fatal tree-listing failures.
var ErrRepository = errors.New("repository unavailable")

// Config controls a repository scan.
type Config struct {
	Repo source.Repo

	// Exclude holds caller patterns unioned with the built-in exclusions.
	Exclude []string
	// ExcludeFile names an optional gitignore-syntax file.
	ExcludeFile string

	// Concurrency is the maximum number of simultaneous content retrievals.
	// Values <= 0 select DefaultConcurrency.
	Concurrency int
	// MaxBytes skips entries whose listed size exceeds it. 0 disables the cap.
	MaxBytes   int64
	ScanBinary bool

	// Catalog is the pattern set to apply; nil selects detectors.Default().
	Catalog *detectors.Catalog
	// Logger receives progress and warnings; nil disables logging.
	Logger *zerolog.Logger
	// Progress is called once per attempted file with the running count.
	// Calls are serialized.
	Progress func(done, total int)
}

// Result contains findings, warnings and basic scan statistics.
type Result struct {
	Findings []types.Finding
	// Warnings disclose why the finding set may be incomplete.
	Warnings     []string
	FilesScanned int
	FilesSkipped int
	Truncated    bool
	Canceled     bool
	Duration     time.Duration
}

func (cfg Config) withDefaults() Config {
	cfg.Repo = cfg.Repo.WithDefaults()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Catalog == nil {
		cfg.Catalog = detectors.Default()
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	return cfg
}

// Scan runs a scan and returns only findings and warnings.
func Scan(ctx context.Context, src source.Source, cfg Config) ([]types.Finding, []string, error) {
	res, err := ScanRepository(ctx, src, cfg)
	if err != nil {
		return nil, nil, err
	}
	return res.Findings, res.Warnings, nil
}

// ScanRepository lists cfg.Repo through src, filters the entries, retrieves
// eligible files with at most cfg.Concurrency requests in flight and matches
// their content. A failed listing is fatal. A failed file only adds a
// warning. Cancelling ctx stops dispatch and returns the partial result with
// Canceled set and a nil error.
//
// Findings are ordered by path, then line, then catalog order, regardless of
// completion order.
func ScanRepository(ctx context.Context, src source.Source, cfg Config) (Result, error) {
	var result Result
	cfg = cfg.withDefaults()
	log := cfg.Logger
	repo := cfg.Repo
	if err := repo.Validate(); err != nil {
		return result, err
	}

	filter, err := NewFilter(cfg.Exclude)
	if err != nil {
		return result, err
	}
	if cfg.ExcludeFile != "" {
		if filter, err = filter.WithIgnoreFile(cfg.ExcludeFile); err != nil {
			return result, err
		}
	}

	started := time.Now()
	log.Info().Str("repo", repo.String()).Msg("fetching repository tree")
	tree, err := src.Tree(ctx, repo)
	if err != nil {
		if ctx.Err() != nil {
			result.Canceled = true
			result.Warnings = append(result.Warnings, "scan canceled before the repository tree was listed")
			result.Duration = time.Since(started)
			return result, nil
		}
		if errors.Is(err, source.ErrNotFound) {
			return result, fmt.Errorf("%w: repository %s not found or branch %q does not exist: %w",
				ErrRepository, repo.FullName(), repo.Branch, err)
		}
		return result, fmt.Errorf("%w: listing %s: %w", ErrRepository, repo, err)
	}
	if tree.Truncated {
		w := fmt.Sprintf("file listing for %s was truncated by the source; some files were not scanned", repo)
		log.Warn().Str("repo", repo.String()).Msg(w)
		result.Warnings = append(result.Warnings, w)
		result.Truncated = true
	}

	files, skipped := selectFiles(tree.Entries, filter, cfg.MaxBytes, log)
	result.FilesSkipped += skipped
	log.Info().Int("files", len(files)).Int("concurrency", cfg.Concurrency).Msg("scanning files for secrets")

	outcomes := scanFiles(ctx, src, cfg, files)
	notStarted := 0
	for i, o := range outcomes {
		switch {
		case !o.started || o.canceled:
			notStarted++
		case o.err != nil:
			w := fmt.Sprintf("failed to fetch or scan file %s: %v", files[i].Path, o.err)
			log.Warn().Str("path", files[i].Path).Err(o.err).Msg("file retrieval failed")
			result.Warnings = append(result.Warnings, w)
		case o.skipped:
			result.FilesSkipped++
		default:
			result.FilesScanned++
			result.Findings = append(result.Findings, o.findings...)
		}
	}
	if ctx.Err() != nil {
		result.Canceled = true
		w := fmt.Sprintf("scan canceled: %d of %d files were not scanned", notStarted, len(files))
		log.Warn().Msg(w)
		result.Warnings = append(result.Warnings, w)
	}

	result.Duration = time.Since(started)
	log.Debug().Int("findings", len(result.Findings)).Dur("duration", result.Duration).Msg("scan finished")
	return result, nil
}

// selectFiles keeps FILE entries that pass the filter and size cap, sorted by path.
func selectFiles(entries []source.Entry, filter *Filter, maxBytes int64, log *zerolog.Logger) ([]source.Entry, int) {
	var files []source.Entry
	skipped := 0
	for _, e := range entries {
		if e.Kind != types.KindFile || e.Path == "" {
			continue
		}
		if filter.ShouldExclude(e.Path) {
			continue
		}
		if maxBytes > 0 && e.Size > maxBytes {
			log.Debug().Str("path", e.Path).Int64("size", e.Size).Msg("skipping oversized file")
			skipped++
			continue
		}
		files = append(files, e)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, skipped
}

type fileOutcome struct {
	started  bool
	canceled bool
	skipped  bool
	err      error
	findings []types.Finding
}

// scanFiles fans out over files with a bounded pool. Each worker writes only
// its own slot, so the merge afterwards is deterministic.
func scanFiles(ctx context.Context, src source.Source, cfg Config, files []source.Entry) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)

	var mu sync.Mutex
	done := 0
	report := func() {
		if cfg.Progress == nil {
			return
		}
		mu.Lock()
		done++
		cfg.Progress(done, len(files))
		mu.Unlock()
	}

	for i := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = scanFile(ctx, src, cfg, files[i].Path)
			report()
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func scanFile(ctx context.Context, src source.Source, cfg Config, path string) fileOutcome {
	o := fileOutcome{started: true}
	text, err := src.FileContent(ctx, cfg.Repo, path)
	if err != nil {
		if ctx.Err() != nil {
			o.canceled = true
			return o
		}
		o.err = err
		return o
	}
	if cfg.MaxBytes > 0 && int64(len(text)) > cfg.MaxBytes {
		cfg.Logger.Debug().Str("path", path).Int("size", len(text)).Msg("skipping oversized file")
		o.skipped = true
		return o
	}
	if !cfg.ScanBinary && isBinary([]byte(text)) {
		cfg.Logger.Debug().Str("path", path).Msg("skipping binary content")
		o.skipped = true
		return o
	}
	o.findings = ScanContent(cfg.Catalog, text, path)
	sort.SliceStable(o.findings, func(i, j int) bool { return o.findings[i].Line < o.findings[j].Line })
	return o
}
