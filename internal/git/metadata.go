// Package git reads metadata from a local checkout so the CLI can infer which
// remote repository and branch to scan.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/leakscout/leakscout/internal/source"
)

// Metadata describes a local checkout.
type Metadata struct {
	// RemoteURL is the first URL of the origin remote, if any.
	RemoteURL string
	Owner     string
	Name      string
	// Branch is the branch HEAD points at; empty on a detached HEAD.
	Branch string
	// Commit is the HEAD commit hash; empty on an unborn branch.
	Commit string
}

// Repo converts the metadata into scan coordinates.
func (m Metadata) Repo() source.Repo {
	return source.Repo{Owner: m.Owner, Name: m.Name, Branch: m.Branch}
}

// validateRoot validates and normalizes a repository root path.
// Returns the cleaned absolute path or an error if invalid.
func validateRoot(root string) (string, error) {
	// Check for null bytes (potential injection)
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}

	cleaned := filepath.Clean(root)
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

// RepoMetadata opens the repository containing root (searching parent
// directories) and reports its origin remote and current branch.
func RepoMetadata(root string) (Metadata, error) {
	var md Metadata
	validRoot, err := validateRoot(root)
	if err != nil {
		return md, err
	}
	r, err := gogit.PlainOpenWithOptions(validRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return md, fmt.Errorf("open repository at %s: %w", root, err)
	}

	if remote, err := r.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			md.RemoteURL = urls[0]
			md.Owner, md.Name, _ = source.ParseRemoteURL(md.RemoteURL)
		}
	} else if !errors.Is(err, gogit.ErrRemoteNotFound) {
		return md, fmt.Errorf("read origin remote: %w", err)
	}

	// HEAD may point at an unborn branch, so read the symbolic ref directly.
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return md, fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		md.Branch = head.Target().Short()
	}
	if resolved, err := r.Head(); err == nil {
		md.Commit = resolved.Hash().String()
	}
	return md, nil
}
