package detectors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/leakscout/leakscout/internal/types"
)

// Pattern is one named secret signature.
type Pattern struct {
	ID       string
	Name     string
	Severity types.Severity
	Re       *regexp.Regexp
}

// Catalog is an immutable, ordered list of patterns. Build it once at startup
// and share it; it is safe for concurrent use.
type Catalog struct {
	patterns []Pattern
	byID     map[string]int
}

// New validates the patterns and returns a catalog preserving their order.
func New(patterns ...Pattern) (*Catalog, error) {
	c := &Catalog{
		patterns: make([]Pattern, 0, len(patterns)),
		byID:     make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate pattern id %q", p.ID)
		}
		c.byID[p.ID] = len(c.patterns)
		c.patterns = append(c.patterns, p)
	}
	return c, nil
}

// MustNew is New for statically known patterns.
func MustNew(patterns ...Pattern) *Catalog {
	c, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return c
}

func validate(p Pattern) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("pattern id is required")
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("pattern %q: name is required", p.ID)
	case p.Re == nil:
		return fmt.Errorf("pattern %q: regex is required", p.ID)
	case p.Severity.Rank() == 0:
		return fmt.Errorf("pattern %q: invalid severity %q", p.ID, p.Severity)
	}
	return nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	var all []Pattern
	all = append(all, awsPatterns...)
	all = append(all, dbURIPatterns...)
	all = append(all, apiKeyPatterns...)
	all = append(all, githubPatterns...)
	all = append(all, privateKeyPatterns...)
	all = append(all, slackPatterns...)
	all = append(all, stripePatterns...)
	all = append(all, passwordPatterns...)
	// Families below were added after the original set and stay behind it in
	// catalog order.
	all = append(all, googlePatterns...)
	all = append(all, gitlabPatterns...)
	all = append(all, extraPrivateKeyPatterns...)
	all = append(all, slackWebhookPatterns...)
	all = append(all, jwtPatterns...)
	return MustNew(all...)
}

// Patterns returns a copy of the catalog entries in order.
func (c *Catalog) Patterns() []Pattern {
	if c == nil {
		return nil
	}
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Len reports the number of patterns.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.patterns)
}

// IDs returns pattern IDs in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		ids[i] = p.ID
	}
	return ids
}

// Lookup finds a pattern by ID.
func (c *Catalog) Lookup(id string) (Pattern, bool) {
	if c == nil {
		return Pattern{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Pattern{}, false
	}
	return c.patterns[i], true
}

// With returns a new catalog with extra patterns appended after the existing ones.
func (c *Catalog) With(extra ...Pattern) (*Catalog, error) {
	return New(append(c.Patterns(), extra...)...)
}

// Without returns a new catalog lacking the given IDs. Unknown IDs are an error
// so that typos in configuration do not silently keep a pattern enabled.
func (c *Catalog) Without(ids ...string) (*Catalog, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := c.Lookup(id); !ok {
			return nil, fmt.Errorf("unknown pattern id %q", id)
		}
		drop[id] = true
	}
	var kept []Pattern
	for _, p := range c.Patterns() {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	return New(kept...)
}

// Compile builds a pattern from configuration strings.
func Compile(id, name, expr, severity string) (Pattern, error) {
	sev, ok := types.ParseSeverity(severity)
	if !ok {
		return Pattern{}, fmt.Errorf("pattern %q: invalid severity %q (want high, medium or low)", id, severity)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", id, err)
	}
	if name == "" {
		name = id
	}
	return Pattern{ID: id, Name: name, Severity: sev, Re: re}, nil
}
