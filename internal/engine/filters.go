package engine

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/leakscout/leakscout/internal/ignore"
)

// directory names excluded at any depth
var defaultExcludeDirs = map[string]bool{
	".git":             true,
	".svn":             true,
	".hg":              true,
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"target":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	".venv":            true,
	"venv":             true,
	"__pycache__":      true,
	"coverage":         true,
}

// suffixes treated as non-text/big or noisy artifacts
var defaultExcludeFileSuffixes = []string{
	".min.js", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".bmp",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z", ".rar",
	".jar", ".class", ".exe", ".dll", ".so", ".dylib",
	".wasm", ".pyc", ".woff", ".woff2", ".ttf", ".eot",
	".mp3", ".mp4", ".mov",
}

// exact filenames always excluded
var defaultExcludeFileNames = map[string]bool{
	// lockfiles (package managers)
	"yarn.lock":         true,
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"composer.lock":     true,
	"poetry.lock":       true,
	"cargo.lock":        true,
	"go.sum":            true,
	// OS cruft
	".ds_store": true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	// fast check for any *.lock
	if strings.HasSuffix(lowerRel, ".lock") {
		return true
	}
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return defaultExcludeFileNames[path.Base(lowerRel)]
}

// IsBuiltinExcluded reports whether p is excluded by the built-in set alone.
func IsBuiltinExcluded(p string) bool {
	p = normalizePath(p)
	dirs := strings.Split(p, "/")
	for _, d := range dirs[:len(dirs)-1] {
		if isDefaultDirExcluded(d) {
			return true
		}
	}
	return isDefaultFileExcluded(strings.ToLower(p))
}

// Filter decides whether a repository path is eligible for scanning. Custom
// exclusions are unioned with the built-in set; they never replace it.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	globs   []string
	regexps []*regexp.Regexp
	ign     ignore.Matcher
}

// NewFilter compiles caller-supplied exclusions. Each entry is a doublestar
// glob ("docs/**", "*.pem"), a directory prefix ending in "/", or a Go
// regular expression when prefixed with "re:".
func NewFilter(custom []string) (*Filter, error) {
	f := &Filter{}
	for _, c := range custom {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if expr, ok := strings.CutPrefix(c, "re:"); ok {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("exclude %q: %w", c, err)
			}
			f.regexps = append(f.regexps, re)
			continue
		}
		if strings.HasSuffix(c, "/") {
			c += "**"
		}
		if !doublestar.ValidatePattern(c) {
			return nil, fmt.Errorf("exclude %q: invalid glob", c)
		}
		f.globs = append(f.globs, c, trimGlobPrefix(c))
	}
	return f, nil
}

// WithIgnoreFile adds gitignore-style patterns loaded from file.
func (f *Filter) WithIgnoreFile(file string) (*Filter, error) {
	m, err := ignore.Load(file)
	if err != nil {
		return nil, fmt.Errorf("exclude file %s: %w", file, err)
	}
	out := *f
	out.ign = m
	return &out, nil
}

// ShouldExclude reports whether p must not be scanned. A nil Filter applies
// only the built-in set.
func (f *Filter) ShouldExclude(p string) bool {
	if IsBuiltinExcluded(p) {
		return true
	}
	if f == nil {
		return false
	}
	rp := normalizePath(p)
	if len(f.globs) > 0 && matchAnyGlob(rp, f.globs) {
		return true
	}
	for _, re := range f.regexps {
		if re.MatchString(rp) {
			return true
		}
	}
	return f.ign.Match(rp)
}

func normalizePath(p string) string {
	return strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "./")
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	base := path.Base(pathToMatch)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
