package gitclone

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leakscout/leakscout/internal/source"
	"github.com/leakscout/leakscout/internal/types"
)

func memRepo(t *testing.T, files map[string]string) *git.Repository {
	t.Helper()
	fs := memfs.New()
	r, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	for name, body := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(body), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
	return r
}

var master = source.Repo{Owner: "acme", Name: "widgets", Branch: "master"}

func TestTree(t *testing.T) {
	s := FromRepository(memRepo(t, map[string]string{
		"README.md":     "hello\n",
		"src/config.js": "const x = 1;\n",
	}))

	tree, err := s.Tree(context.Background(), master)
	require.NoError(t, err)
	assert.False(t, tree.Truncated)

	files := map[string]int64{}
	for _, e := range tree.Entries {
		if e.Kind == types.KindFile {
			files[e.Path] = e.Size
		}
	}
	assert.Equal(t, map[string]int64{"README.md": 6, "src/config.js": 13}, files)

	var dirs []string
	for _, e := range tree.Entries {
		if e.Kind == types.KindOther {
			dirs = append(dirs, e.Path)
		}
	}
	assert.Equal(t, []string{"src"}, dirs)
}

func TestTree_MissingBranch(t *testing.T) {
	s := FromRepository(memRepo(t, map[string]string{"a.txt": "a"}))
	_, err := s.Tree(context.Background(), source.Repo{Owner: "acme", Name: "widgets", Branch: "nope"})
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestFileContent(t *testing.T) {
	s := FromRepository(memRepo(t, map[string]string{"src/config.js": "token\n"}))

	got, err := s.FileContent(context.Background(), master, "src/config.js")
	require.NoError(t, err)
	assert.Equal(t, "token\n", got)

	_, err = s.FileContent(context.Background(), master, "missing.txt")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestFileContent_Canceled(t *testing.T) {
	s := FromRepository(memRepo(t, map[string]string{"a.txt": "a"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.FileContent(ctx, master, "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "https://github.com/acme/widgets.git", New("", "").URL(master))
	s := New("https://git.example.com/{owner}/{repo}", "")
	assert.Equal(t, "https://git.example.com/acme/widgets", s.URL(master))
}
