package version

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{
		repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) commit(t *testing.T, name string) plumbing.Hash {
	t.Helper()
	f, err := r.wt.Filesystem.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(name))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	_, err = r.wt.Add(name)
	require.NoError(t, err)

	// Strictly increasing committer times keep the history walk ordered.
	r.clock = r.clock.Add(time.Minute)
	hash, err := r.wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: r.clock},
	})
	require.NoError(t, err)
	return hash
}

func (r *testRepo) tag(t *testing.T, name string, hash plumbing.Hash) {
	t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(t, err)
}

func TestResolveTagOnHead(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commit(t, "a")
	r.tag(t, "v1.0.0", hash)

	got, err := FromRepository(r.repo).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", got)
}

func TestResolveTagPlusDistance(t *testing.T) {
	r := newTestRepo(t)
	tagged := r.commit(t, "a")
	r.tag(t, "v1.2.3", tagged)
	r.commit(t, "b")
	head := r.commit(t, "c")

	got, err := FromRepository(r.repo).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("v1.2.3-2-g%s", head.String()[:7]), got)
}

func TestResolveAnnotatedTag(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commit(t, "a")
	r.clock = r.clock.Add(time.Minute)
	_, err := r.repo.CreateTag("v2.0.0", hash, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "test", Email: "test@example.com", When: r.clock},
		Message: "release v2.0.0",
	})
	require.NoError(t, err)

	got, err := FromRepository(r.repo).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", got)
}

func TestHighestSemverTagWinsOnSameCommit(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commit(t, "a")
	r.tag(t, "v1.9.0", hash)
	r.tag(t, "v1.10.0", hash)
	r.tag(t, "nightly", hash)

	got, err := FromRepository(r.repo).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.10.0", got)
}

func TestNoTagReachableIsVersionResolutionError(t *testing.T) {
	r := newTestRepo(t)
	r.commit(t, "a")

	_, err := FromRepository(r.repo).Resolve(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestEmptyRepositoryIsVersionResolutionError(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	_, err = FromRepository(repo).Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestNoRepositoryAtPathIsVersionResolutionError(t *testing.T) {
	_, err := AtPath(t.TempDir()).Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestStaticProvider(t *testing.T) {
	got, err := Static("v4.5.6").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.5.6", got)

	_, err = Static("").Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoVersion)
}
