// Package source defines how leakscout reaches a remote repository: listing
// its file tree and retrieving file content. Implementations live in
// subpackages; the engine depends only on the Source interface.
package source

import (
	"context"
	"errors"

	"github.com/leakscout/leakscout/internal/types"
)

var (
	// ErrNotFound reports a missing repository, branch, or path.
	ErrNotFound = errors.New("not found")
	// ErrTransient reports a network-level or rate-limit failure that may
	// succeed if retried later.
	ErrTransient = errors.New("transient failure")
)

// Entry is one item of a repository tree listing.
type Entry struct {
	Path string
	Kind types.EntryKind
	// Size in bytes when the source knows it, otherwise 0.
	Size int64
}

// Tree is a repository file listing. Truncated is set when the source capped
// the listing before completion.
type Tree struct {
	Entries   []Entry
	Truncated bool
}

// Source retrieves repository trees and file content. Implementations must be
// safe for concurrent FileContent calls.
type Source interface {
	// Tree lists every entry reachable from the tip of repo.Branch. It wraps
	// ErrNotFound when the owner, repository, or branch does not exist.
	Tree(ctx context.Context, repo Repo) (Tree, error)

	// FileContent returns the decoded text of path at repo.Branch. It wraps
	// ErrNotFound for a missing path and ErrTransient for network failures.
	FileContent(ctx context.Context, repo Repo, path string) (string, error)
}
