// Package update checks GitHub releases for a newer leakscout and applies
// self-updates.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	gh "github.com/google/go-github/v30/github"
	"github.com/rhysd/go-github-selfupdate/selfupdate"

	"github.com/leakscout/leakscout/internal/config"
)

const (
	// Slug is the owner/name of the release repository.
	Slug          = "leakscout/leakscout"
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

// Fetcher returns the latest released version tag.
type Fetcher func(ctx context.Context) (string, error)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

func cachePath() string {
	dir, err := config.GlobalDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, cacheFileName)
}

func loadCache() (cache, error) {
	var c cache
	p := cachePath()
	if p == "" {
		return c, errors.New("no config dir")
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return c, err
	}
	_ = json.Unmarshal(b, &c)
	return c, nil
}

func saveCache(c cache) {
	p := cachePath()
	if p == "" {
		return
	}
	_ = os.MkdirAll(filepath.Dir(p), 0755)
	b, _ := json.MarshalIndent(c, "", "  ")
	_ = os.WriteFile(p, b, 0644)
}

// LatestFromGitHub fetches the tag of the latest release of Slug.
func LatestFromGitHub(client *gh.Client) Fetcher {
	return func(ctx context.Context) (string, error) {
		owner, name, _ := strings.Cut(Slug, "/")
		rel, _, err := client.Repositories.GetLatestRelease(ctx, owner, name)
		if err != nil {
			return "", err
		}
		if v := rel.GetTagName(); v != "" {
			return v, nil
		}
		return rel.GetName(), nil
	}
}

// Check returns (latest, isNewer, error). It uses a 24h cache and skips in CI.
// Fetch failures are not reported; the check is advisory.
func Check(ctx context.Context, current string, fetch Fetcher) (string, bool, error) {
	if os.Getenv("CI") != "" || fetch == nil {
		return "", false, nil
	}
	current = normalize(current)
	c, _ := loadCache()
	latest := c.Latest
	if time.Since(c.LastChecked) > cacheTTL || latest == "" {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if v, err := fetch(ctx); err == nil {
			latest = normalize(v)
			c.Latest = latest
			c.LastChecked = time.Now()
			saveCache(c)
		}
	}
	if latest == "" || current == "" {
		return latest, false, nil
	}
	return latest, compare(latest, current) > 0, nil
}

// Apply replaces the running binary with the latest release and returns the
// installed version.
func Apply(current string) (string, error) {
	ver, err := semver.ParseTolerant(current)
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(ver.String()), Slug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}

// compare returns 1 if a>b, -1 if a<b, 0 if equal. Versions that are not
// valid semver compare as equal.
func compare(a, b string) int {
	av, errA := semver.ParseTolerant(a)
	bv, errB := semver.ParseTolerant(b)
	if errA != nil || errB != nil {
		return 0
	}
	return av.Compare(bv)
}
