// Package gitclone implements source.Source by shallow-cloning a branch into
// memory with go-git and reading the tree and blobs from the clone.
package gitclone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/types"
)

// DefaultURLTemplate clones from github.com over HTTPS.
const DefaultURLTemplate = "https://github.com/{owner}/{repo}.git"

// Source clones each requested branch once and serves reads from memory.
type Source struct {
	urlTemplate string
	token       string

	mu     sync.Mutex
	clones map[source.Repo]*git.Repository
	fixed  *git.Repository
}

var _ source.Source = (*Source)(nil)

// New returns a clone-backed source. urlTemplate may contain {owner} and
// {repo} placeholders; empty selects DefaultURLTemplate.
func New(urlTemplate, token string) *Source {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Source{
		urlTemplate: urlTemplate,
		token:       token,
		clones:      make(map[source.Repo]*git.Repository),
	}
}

// FromRepository serves every Repo from an already opened repository.
// Only the branch of the requested Repo is consulted.
func FromRepository(r *git.Repository) *Source {
	s := New("", "")
	s.fixed = r
	return s
}

// URL renders the clone URL for repo.
func (s *Source) URL(repo source.Repo) string {
	r := strings.NewReplacer("{owner}", repo.Owner, "{repo}", repo.Name)
	return r.Replace(s.urlTemplate)
}

func (s *Source) open(ctx context.Context, repo source.Repo) (*git.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fixed != nil {
		return s.fixed, nil
	}
	if r, ok := s.clones[repo]; ok {
		return r, nil
	}

	opts := &git.CloneOptions{
		URL:           s.URL(repo),
		ReferenceName: plumbing.NewBranchReferenceName(repo.Branch),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	}
	if s.token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: s.token}
	}
	r, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, transport.ErrRepositoryNotFound),
			errors.Is(err, transport.ErrAuthenticationRequired),
			errors.Is(err, git.NoMatchingRefSpecError{}),
			errors.Is(err, plumbing.ErrReferenceNotFound):
			return nil, fmt.Errorf("clone %s: %w", repo, source.ErrNotFound)
		}
		return nil, fmt.Errorf("clone %s: %w: %v", repo, source.ErrTransient, err)
	}
	s.clones[repo] = r
	return r, nil
}

func (s *Source) rootTree(ctx context.Context, repo source.Repo) (*git.Repository, *object.Tree, error) {
	r, err := s.open(ctx, repo)
	if err != nil {
		return nil, nil, err
	}
	ref, err := r.Reference(plumbing.NewBranchReferenceName(repo.Branch), true)
	if err != nil {
		return nil, nil, fmt.Errorf("branch %s of %s: %w", repo.Branch, repo.FullName(), source.ErrNotFound)
	}
	commit, err := r.CommitObject(ref.Hash())
	if err != nil {
		return nil, nil, fmt.Errorf("commit %s: %w", ref.Hash(), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, nil, fmt.Errorf("tree of %s: %w", ref.Hash(), err)
	}
	return r, tree, nil
}

// Tree walks the branch tip recursively. Symlinks, submodules and
// directories are reported as non-file entries.
func (s *Source) Tree(ctx context.Context, repo source.Repo) (source.Tree, error) {
	r, tree, err := s.rootTree(ctx, repo)
	if err != nil {
		return source.Tree{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out source.Tree
	w := object.NewTreeWalker(tree, true, nil)
	defer w.Close()
	for {
		if err := ctx.Err(); err != nil {
			return source.Tree{}, err
		}
		name, entry, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return source.Tree{}, fmt.Errorf("walk %s: %w", repo, err)
		}
		e := source.Entry{Path: name, Kind: types.KindOther}
		if entry.Mode == filemode.Regular || entry.Mode == filemode.Executable || entry.Mode == filemode.Deprecated {
			e.Kind = types.KindFile
			if blob, err := r.BlobObject(entry.Hash); err == nil {
				e.Size = blob.Size
			}
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

// FileContent reads path from the branch tip.
func (s *Source) FileContent(ctx context.Context, repo source.Repo, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, tree, err := s.rootTree(ctx, repo)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return "", fmt.Errorf("file %s: %w", path, source.ErrNotFound)
		}
		return "", fmt.Errorf("file %s: %w", path, err)
	}
	return f.Contents()
}
