// Package github implements source.Source over the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v30/github"
	"golang.org/x/oauth2"

	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/types"
)

// Source reads trees and blobs through the GitHub REST API.
type Source struct {
	client *gh.Client
}

var _ source.Source = (*Source)(nil)

// New builds a client authenticated with token. An empty token yields an
// unauthenticated client subject to the anonymous rate limit. apiURL selects
// a GitHub Enterprise endpoint such as https://ghe.example.com/api/v3/.
func New(ctx context.Context, token, apiURL string) (*Source, error) {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	if apiURL == "" {
		return &Source{client: gh.NewClient(hc)}, nil
	}
	c, err := gh.NewEnterpriseClient(apiURL, apiURL, hc)
	if err != nil {
		return nil, fmt.Errorf("github api url %q: %w", apiURL, err)
	}
	return &Source{client: c}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(c *gh.Client) *Source {
	return &Source{client: c}
}

// Client exposes the underlying API client for callers sharing auth, such as
// the release lookup in the update command.
func (s *Source) Client() *gh.Client { return s.client }

// Tree resolves the branch tip to its root tree and lists it recursively.
func (s *Source) Tree(ctx context.Context, repo source.Repo) (source.Tree, error) {
	branch, resp, err := s.client.Repositories.GetBranch(ctx, repo.Owner, repo.Name, repo.Branch)
	if err != nil {
		return source.Tree{}, classify(resp, err, fmt.Sprintf("branch %s of %s", repo.Branch, repo.FullName()))
	}
	sha := branch.GetCommit().GetCommit().GetTree().GetSHA()
	if sha == "" {
		return source.Tree{}, fmt.Errorf("branch %s of %s has no tree", repo.Branch, repo.FullName())
	}

	tree, resp, err := s.client.Git.GetTree(ctx, repo.Owner, repo.Name, sha, true)
	if err != nil {
		return source.Tree{}, classify(resp, err, fmt.Sprintf("tree %s of %s", sha, repo.FullName()))
	}

	out := source.Tree{
		Entries:   make([]source.Entry, 0, len(tree.Entries)),
		Truncated: tree.GetTruncated(),
	}
	for _, e := range tree.Entries {
		kind := types.KindOther
		if e.GetType() == "blob" {
			kind = types.KindFile
		}
		out.Entries = append(out.Entries, source.Entry{
			Path: e.GetPath(),
			Kind: kind,
			Size: int64(e.GetSize()),
		})
	}
	return out, nil
}

// FileContent fetches path at the repository branch and decodes it.
func (s *Source) FileContent(ctx context.Context, repo source.Repo, path string) (string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: repo.Branch}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, opts)
	if err != nil {
		return "", classify(resp, err, "file "+path)
	}
	if file == nil {
		return "", fmt.Errorf("file %s: %w", path, source.ErrNotFound)
	}
	text, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return text, nil
}

// classify maps API failures onto the source sentinel errors.
func classify(resp *gh.Response, err error, what string) error {
	var rle *gh.RateLimitError
	var abuse *gh.AbuseRateLimitError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &rle), errors.As(err, &abuse):
		return fmt.Errorf("%s: %w: %v", what, source.ErrTransient, err)
	case resp == nil || resp.Response == nil:
		return fmt.Errorf("%s: %w: %v", what, source.ErrTransient, err)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %w", what, source.ErrNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s: %w: %v", what, source.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

