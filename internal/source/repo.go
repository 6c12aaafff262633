package source

import (
	"fmt"
	"strings"
)

// DefaultBranch is used when no branch is given.
const DefaultBranch = "main"

// Repo identifies a branch of a hosted repository.
type Repo struct {
	Owner  string
	Name   string
	Branch string
}

// String renders owner/name@branch.
func (r Repo) String() string {
	s := r.Owner + "/" + r.Name
	if r.Branch != "" {
		s += "@" + r.Branch
	}
	return s
}

// FullName renders owner/name.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// WithDefaults fills an empty branch with DefaultBranch.
func (r Repo) WithDefaults() Repo {
	if r.Branch == "" {
		r.Branch = DefaultBranch
	}
	return r
}

// Validate reports missing coordinates.
func (r Repo) Validate() error {
	if strings.TrimSpace(r.Owner) == "" {
		return fmt.Errorf("repository owner is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("repository name is required")
	}
	return nil
}

// ParseRepo parses "owner/name" or "owner/name@branch".
// Example: "acme/widgets@dev" -> {acme widgets dev}
func ParseRepo(s string) (Repo, error) {
	var r Repo
	s = strings.TrimSpace(s)
	if at := strings.LastIndex(s, "@"); at >= 0 {
		r.Branch = s[at+1:]
		s = s[:at]
	}
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("invalid repository %q: want owner/name[@branch]", s)
	}
	r.Owner, r.Name = parts[0], strings.TrimSuffix(parts[1], ".git")
	return r, nil
}

// ParseRemoteURL extracts owner and name from common git remote URL forms:
// https://host/owner/name(.git), git@host:owner/name(.git), ssh://git@host/owner/name.
func ParseRemoteURL(u string) (owner, name string, ok bool) {
	u = strings.TrimSpace(u)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")
	if u == "" {
		return "", "", false
	}
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
		if j := strings.Index(u, "/"); j >= 0 {
			u = u[j+1:]
		} else {
			return "", "", false
		}
	} else if i := strings.Index(u, ":"); i >= 0 {
		u = u[i+1:]
	}
	parts := strings.Split(u, "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner, name = parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}
