// Package scm reports the source-control state of kernel sources.
package scm

import (
	"errors"

	git "github.com/go-git/go-git/v5"
)

// WorktreeDirty reports whether `dir` lies inside a git worktree with
// uncommitted changes. Directories outside any repository report false.
func WorktreeDirty(dir string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	status, err := worktree.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}
