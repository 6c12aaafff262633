package leakscout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gh "github.com/google/go-github/v30/github"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/internal/config"
	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/git"
	"github.com/leakscout/leakscout/internal/report"
	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/source/factory"
	"github.com/leakscout/leakscout/internal/tui"
	"github.com/leakscout/leakscout/internal/types"
	"github.com/leakscout/leakscout/internal/update"
)

const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
	formatSARIF = "sarif"
)

type scanOptions struct {
	root *rootOptions

	owner       string
	repo        string
	branch      string
	token       string
	concurrency int
	exclude     []string
	excludeFile string
	maxBytes    int64
	scanBinary  bool
	source      string
	apiURL      string
	cloneURL    string

	format      string
	json        bool
	sarif       bool
	redact      bool
	dedupe      bool
	interactive bool
	disable     []string
	failOn      string
	envFile     string
}

func newScanCmd(root *rootOptions) *cobra.Command {
	o := &scanOptions{root: root}
	cmd := &cobra.Command{
		Use:   "scan [owner/repo[@branch]]",
		Short: "Scan a remote repository branch for secrets",
		Long: `Scan lists every file on a branch of a hosted repository, skips vendored,
generated and binary paths, fetches the remaining files concurrently and
reports lines that match the secret pattern catalog.

With no repository given, owner, name and branch are taken from the origin
remote of the current git checkout.

Exit status is 1 when findings at or above --fail-on exist or the scan fails.`,
		Example: `  leakscout scan acme/widgets
  leakscout scan -o acme -r widgets -b develop --exclude 'docs/**' --format table
  leakscout scan acme/widgets@main --source clone --sarif > results.sarif`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.owner, "owner", "o", "", "repository owner or organization")
	f.StringVarP(&o.repo, "repo", "r", "", "repository name")
	f.StringVarP(&o.branch, "branch", "b", source.DefaultBranch, "branch to scan")
	f.StringVarP(&o.token, "token", "t", "", "access token (default $GITHUB_TOKEN)")
	f.IntVarP(&o.concurrency, "concurrency", "c", 0, fmt.Sprintf("maximum simultaneous file fetches (default %d)", engine.DefaultConcurrency))
	f.StringArrayVar(&o.exclude, "exclude", nil, "exclude paths matching this glob, or regexp with a re: prefix (repeatable)")
	f.StringVar(&o.excludeFile, "exclude-file", "", "gitignore-syntax file of additional exclusions")
	f.Int64Var(&o.maxBytes, "max-bytes", engine.DefaultMaxBytes, "skip files larger than this (0 = no limit)")
	f.BoolVar(&o.scanBinary, "scan-binary", false, "scan files whose content looks binary")
	f.StringVar(&o.source, "source", "", "file source: "+strings.Join(factory.Kinds(), "|")+" (default github)")
	f.StringVar(&o.apiURL, "api-url", "", "GitHub Enterprise API base URL")
	f.StringVar(&o.cloneURL, "clone-url", "", "clone URL template for --source clone, with {owner} and {repo}")
	f.StringVar(&o.format, "format", "", "output format: text|table|json|sarif (default text)")
	f.BoolVar(&o.json, "json", false, "shorthand for --format json")
	f.BoolVar(&o.sarif, "sarif", false, "shorthand for --format sarif")
	f.BoolVar(&o.redact, "redact", false, "mask matched values in the report")
	f.BoolVar(&o.dedupe, "dedupe", false, "collapse findings with the same file, line and match")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "browse findings in a terminal UI")
	f.StringSliceVar(&o.disable, "disable", nil, "pattern IDs to disable (comma-separated)")
	f.StringVar(&o.failOn, "fail-on", "", "exit 1 on findings at or above low|medium|high (default low)")
	f.StringVar(&o.envFile, "env-file", ".env", "dotenv file to load credentials from")
	cmd.MarkFlagsMutuallyExclusive("json", "sarif")
	return cmd
}

// settings is the resolved CLI > local > global view of a scan.
type settings struct {
	repo     source.Repo
	engine   engine.Config
	src      factory.Config
	format   string
	failOn   string
	noColor  bool
	redact   bool
	dedupe   bool
	inferred bool
}

func resolveSettings(cmd *cobra.Command, args []string, o *scanOptions, local, global config.FileConfig) (settings, error) {
	var s settings

	repo, inferred, err := resolveRepo(cmd, args, o, local, global)
	if err != nil {
		return s, err
	}
	s.repo, s.inferred = repo, inferred

	fc := config.FileConfig{
		Disable:  pickStrings(o.disable, local.Disable, global.Disable),
		Patterns: append(append([]config.PatternConfig{}, global.Patterns...), local.Patterns...),
	}
	cat, err := fc.Catalog()
	if err != nil {
		return s, fmt.Errorf("config: %w", err)
	}

	var cliMax *int64
	if cmd.Flags().Changed("max-bytes") {
		cliMax = &o.maxBytes
	}
	s.engine = engine.Config{
		Repo:        repo,
		Exclude:     pickStrings(o.exclude, local.Exclude, global.Exclude),
		ExcludeFile: pickString(o.excludeFile, local.ExcludeFile, global.ExcludeFile),
		Concurrency: pickInt(o.concurrency, local.Concurrency, global.Concurrency),
		MaxBytes:    pickInt64(cliMax, local.MaxBytes, global.MaxBytes, engine.DefaultMaxBytes),
		ScanBinary:  pickBool(changedBool(cmd, "scan-binary", o.scanBinary), local.ScanBinary, global.ScanBinary),
		Catalog:     cat,
	}
	if s.engine.Concurrency < 0 {
		return s, fmt.Errorf("concurrency must be positive, got %d", s.engine.Concurrency)
	}

	token := o.token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	s.src = factory.Config{
		Kind:     pickString(o.source, local.Source, global.Source),
		Token:    token,
		APIURL:   pickString(o.apiURL, local.APIURL, global.APIURL),
		CloneURL: pickString(o.cloneURL, local.CloneURL, global.CloneURL),
	}

	switch {
	case o.json:
		s.format = formatJSON
	case o.sarif:
		s.format = formatSARIF
	default:
		s.format = strings.ToLower(pickString(o.format, local.Format, global.Format))
	}
	switch s.format {
	case "":
		s.format = formatText
	case formatText, formatTable, formatJSON, formatSARIF:
	default:
		return s, fmt.Errorf("unknown format %q (want text, table, json or sarif)", s.format)
	}

	s.failOn = pickString(o.failOn, local.FailOn, global.FailOn)
	if s.failOn != "" {
		if _, ok := types.ParseSeverity(s.failOn); !ok {
			return s, fmt.Errorf("invalid --fail-on %q (want low, medium or high)", s.failOn)
		}
	}
	s.noColor = pickBool(changedBool(cmd, "no-color", o.root.noColor), local.NoColor, global.NoColor) || os.Getenv("NO_COLOR") != ""
	s.redact = pickBool(changedBool(cmd, "redact", o.redact), local.Redact, global.Redact)
	s.dedupe = pickBool(changedBool(cmd, "dedupe", o.dedupe), local.Dedupe, global.Dedupe)
	return s, nil
}

// resolveRepo picks coordinates from the positional argument, then the
// --owner/--repo flags, then the origin remote of the working directory.
// An explicit --branch always wins.
func resolveRepo(cmd *cobra.Command, args []string, o *scanOptions, local, global config.FileConfig) (source.Repo, bool, error) {
	var repo source.Repo
	inferred := false
	switch {
	case len(args) == 1:
		r, err := source.ParseRepo(args[0])
		if err != nil {
			return repo, false, err
		}
		repo = r
		if o.owner != "" || o.repo != "" {
			return repo, false, errors.New("give the repository either as an argument or with --owner/--repo, not both")
		}
	case o.owner != "" || o.repo != "":
		repo = source.Repo{Owner: o.owner, Name: strings.TrimSuffix(o.repo, ".git")}
	default:
		md, err := git.RepoMetadata(".")
		if err != nil {
			return repo, false, fmt.Errorf("no repository given and none could be inferred from the current directory: %w", err)
		}
		repo = md.Repo()
		inferred = true
	}

	switch {
	case cmd.Flags().Changed("branch"):
		repo.Branch = o.branch
	case repo.Branch != "":
		// from the argument or the checked-out branch
	default:
		repo.Branch = pickString("", local.Branch, global.Branch)
	}
	repo = repo.WithDefaults()
	if err := repo.Validate(); err != nil {
		return repo, inferred, err
	}
	return repo, inferred, nil
}

func loadConfigs(log zerolog.Logger) (local, global config.FileConfig, err error) {
	global, err = config.LoadGlobal()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return local, global, err
	}
	local, err = config.LoadLocal(".")
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return local, global, err
	}
	log.Debug().Msg("configuration loaded")
	return local, global, nil
}

func runScan(cmd *cobra.Command, args []string, o *scanOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", o.envFile, err)
		}
	}

	logger, err := o.root.logger(stderr, o.root.noColor)
	if err != nil {
		return err
	}
	local, global, err := loadConfigs(logger)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, args, o, local, global)
	if err != nil {
		return err
	}
	if s.inferred {
		logger.Info().Str("repository", s.repo.String()).Msg("inferred repository from git checkout")
	}
	if o.interactive && !isTerminal(os.Stdout) {
		return errors.New("--interactive requires a terminal")
	}

	src, err := newSource(ctx, s.src)
	if err != nil {
		return err
	}

	cfg := s.engine
	cfg.Logger = &logger
	human := s.format == formatText || s.format == formatTable
	if human && !o.interactive && isTerminal(os.Stderr) {
		cfg.Progress = progressPrinter(stderr)
	}

	logger.Info().
		Str("repository", s.repo.String()).
		Int("patterns", cfg.Catalog.Len()).
		Int("concurrency", cfg.Concurrency).
		Msg("scanning")
	res, err := engine.ScanRepository(ctx, src, cfg)
	if cfg.Progress != nil {
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}

	findings := res.Findings
	if s.dedupe {
		findings = report.Dedupe(findings)
	}

	if o.interactive {
		rescan := func() (tui.Result, error) {
			r, err := engine.ScanRepository(ctx, src, cfg)
			if err != nil {
				return tui.Result{}, err
			}
			fs := r.Findings
			if s.dedupe {
				fs = report.Dedupe(fs)
			}
			return tui.Result{Findings: fs, Warnings: r.Warnings}, nil
		}
		if err := tui.Run(s.repo.String(), tui.Result{Findings: findings, Warnings: res.Warnings}, rescan); err != nil {
			return err
		}
	} else if err := writeReport(stdout, s, res, findings); err != nil {
		return err
	}

	if len(res.Warnings) > 0 {
		report.PrintWarnings(stderr, res.Warnings, s.noColor)
	}
	if human && !o.root.noUpdateCheck {
		notifyUpdate(ctx, stderr)
	}

	if code := report.ExitCode(findings, s.failOn); code != 0 {
		return exitCodeError{code: code}
	}
	return nil
}

func writeReport(w io.Writer, s settings, res engine.Result, findings []types.Finding) error {
	switch s.format {
	case formatJSON:
		return report.WriteJSON(w, report.JSONReport{
			Repository:   s.repo.String(),
			Findings:     maybeRedact(findings, s.redact),
			Warnings:     res.Warnings,
			FilesScanned: res.FilesScanned,
			FilesSkipped: res.FilesSkipped,
			Truncated:    res.Truncated,
			Canceled:     res.Canceled,
		})
	case formatSARIF:
		return report.WriteSARIF(w, maybeRedact(findings, s.redact), report.SARIFOptions{
			Version:  version,
			Catalog:  s.engine.Catalog,
			Warnings: res.Warnings,
		})
	}
	opts := report.PrintOptions{
		NoColor:      s.noColor,
		Redact:       s.redact,
		Highlight:    !s.noColor,
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		FilesSkipped: res.FilesSkipped,
	}
	if s.format == formatTable {
		return report.PrintTable(w, findings, opts)
	}
	report.PrintText(w, findings, opts)
	return nil
}

func maybeRedact(findings []types.Finding, redact bool) []types.Finding {
	if !redact {
		return findings
	}
	return report.Redact(findings)
}

func progressPrinter(w io.Writer) func(done, total int) {
	return func(done, total int) {
		if done%10 == 0 || done == total {
			pct := float64(done) / float64(total) * 100
			fmt.Fprintf(w, "\r[%d/%d] %.0f%%", done, total, pct)
		}
	}
}

func notifyUpdate(ctx context.Context, w io.Writer) {
	latest, newer, _ := update.Check(ctx, version, update.LatestFromGitHub(gh.NewClient(nil)))
	if newer {
		fmt.Fprintf(w, "(new version available: v%s)  run 'leakscout update' to upgrade\n", latest)
	}
}
