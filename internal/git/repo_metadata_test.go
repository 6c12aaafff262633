package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, remote string) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	if remote != "" {
		_, err = r.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remote}})
		require.NoError(t, err)
	}
	return dir, r
}

func TestRepoMetadata(t *testing.T) {
	dir, r := initRepo(t, "git@github.com:acme/widgets.git")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	hash, err := wt.Commit("init", &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	md, err := RepoMetadata(sub)
	require.NoError(t, err)
	assert.Equal(t, "acme", md.Owner)
	assert.Equal(t, "widgets", md.Name)
	assert.Equal(t, "master", md.Branch)
	assert.Equal(t, hash.String(), md.Commit)
	assert.Equal(t, "acme/widgets@master", md.Repo().String())
}

func TestRepoMetadata_UnbornNoRemote(t *testing.T) {
	dir, _ := initRepo(t, "")
	md, err := RepoMetadata(dir)
	require.NoError(t, err)
	assert.Empty(t, md.Owner)
	assert.Empty(t, md.Commit)
	assert.Equal(t, "master", md.Branch)
}

func TestRepoMetadata_NotARepo(t *testing.T) {
	_, err := RepoMetadata(t.TempDir())
	assert.Error(t, err)

	_, err = RepoMetadata(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
