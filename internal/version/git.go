package version

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const shortHashLen = 7

// GitProvider resolves the version from a git repository: the nearest tag
// reachable from HEAD, plus the commit distance and abbreviated hash when
// HEAD itself is not tagged.
type GitProvider struct {
	repo *git.Repository
}

// NewGitProvider opens the repository containing path. An unreadable or
// absent repository is a version-resolution failure, not a default.
func NewGitProvider(path string) (*GitProvider, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: opening repository at %s: %v", ErrNoVersion, path, err)
	}
	return &GitProvider{repo: repo}, nil
}

// FromRepository wraps an already-open repository.
func FromRepository(repo *git.Repository) *GitProvider {
	return &GitProvider{repo: repo}
}

// AtPath returns a Provider that opens the repository at resolve time, so a
// missing repository surfaces when stamping is attempted rather than at
// startup.
func AtPath(path string) Provider {
	return pathProvider(path)
}

type pathProvider string

func (p pathProvider) Resolve(ctx context.Context) (string, error) {
	provider, err := NewGitProvider(string(p))
	if err != nil {
		return "", err
	}
	return provider.Resolve(ctx)
}

// Resolve walks the commit history from HEAD until it meets a tagged commit
// and renders the describe form: the tag name alone at distance zero,
// otherwise "<tag>-<distance>-g<short-hash>".
func (g *GitProvider) Resolve(ctx context.Context) (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("%w: resolving HEAD: %v", ErrNoVersion, err)
	}

	tags, err := g.tagsByCommit()
	if err != nil {
		return "", fmt.Errorf("%w: listing tags: %v", ErrNoVersion, err)
	}

	iter, err := g.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return "", fmt.Errorf("%w: walking history: %v", ErrNoVersion, err)
	}

	distance := 0
	tag := ""
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if names, ok := tags[c.Hash]; ok {
			tag = bestTag(names)
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: walking history: %v", ErrNoVersion, err)
	}
	if tag == "" {
		return "", fmt.Errorf("%w: no tag reachable from HEAD", ErrNoVersion)
	}

	if distance == 0 {
		return tag, nil
	}
	return fmt.Sprintf("%s-%d-g%s", tag, distance, head.Hash().String()[:shortHashLen]), nil
}

// tagsByCommit maps commit hashes to the tag names pointing at them,
// dereferencing annotated tags to their target commits.
func (g *GitProvider) tagsByCommit() (map[plumbing.Hash][]string, error) {
	refs, err := g.repo.Tags()
	if err != nil {
		return nil, err
	}

	tags := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tagObj, err := g.repo.TagObject(ref.Hash()); err == nil {
			target = tagObj.Target
		}
		tags[target] = append(tags[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// bestTag picks one tag when several point at the same commit: the highest
// semantic version wins, and any semver tag beats a non-semver one.
func bestTag(names []string) string {
	best := ""
	var bestVer *semver.Version
	for _, name := range names {
		ver, err := semver.NewVersion(name)
		switch {
		case err == nil && (bestVer == nil || ver.GreaterThan(bestVer)):
			best, bestVer = name, ver
		case bestVer == nil && (best == "" || name > best):
			best = name
		}
	}
	return best
}
