// Package ignore loads gitignore-style exclusion files.
package ignore

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Matcher reports whether a slash-separated repository path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	gi *gitignore.GitIgnore
}

// Load reads a gitignore-style file. A missing file yields an empty matcher.
func Load(path string) (Matcher, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Matcher{}, nil
	}
	if err != nil {
		return Matcher{}, err
	}
	return Parse(strings.Split(string(b), "\n")...), nil
}

// Parse compiles gitignore pattern lines. Blank lines are dropped.
func Parse(lines ...string) Matcher {
	var kept []string
	for _, l := range lines {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == 0 {
		return Matcher{}
	}
	return Matcher{gi: gitignore.CompileIgnoreLines(kept...)}
}

// Empty reports whether the matcher has no patterns.
func (m Matcher) Empty() bool { return m.gi == nil }

// Match reports whether path is ignored.
func (m Matcher) Match(path string) bool {
	if m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(path)
}
