// Package git drives a local working tree through the git binary.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const (
	committerName  = "isomeradmin"
	committerEmail = "isomeradmin@users.noreply.github.com"
)

// Clone makes a shallow copy of a repository into dir.
func Clone(ctx context.Context, url, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("git clone: %s", msg)
		}
		return fmt.Errorf("git clone: %w", err)
	}
	return nil
}

// Worktree is a local checkout of a site repository.
type Worktree struct {
	dir string
}

func NewWorktree(dir string) *Worktree {
	return &Worktree{dir: dir}
}

func (w *Worktree) Dir() string { return w.dir }

// Init initialises the tree with the given branch checked out.
func (w *Worktree) Init(ctx context.Context, defaultBranch string) error {
	if err := w.run(ctx, "init", "-b", defaultBranch); err != nil {
		return err
	}
	for k, v := range map[string]string{
		"user.name":  committerName,
		"user.email": committerEmail,
	} {
		if err := w.run(ctx, "config", k, v); err != nil {
			return fmt.Errorf("setting git config: %w", err)
		}
	}
	return nil
}

func (w *Worktree) CommitAll(ctx context.Context, message string) error {
	if err := w.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if err := w.run(ctx, "commit", "--no-verify", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

func (w *Worktree) AddRemote(ctx context.Context, name, url string) error {
	return w.run(ctx, "remote", "add", name, url)
}

// Push updates the named remote ref from the current HEAD, regardless
// of which branch is checked out locally.
func (w *Worktree) Push(ctx context.Context, remote, ref string) error {
	return w.run(ctx, "push", remote, "HEAD:refs/heads/"+ref)
}

func (w *Worktree) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = w.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("git %v: %s", args[0], msg)
		}
		return fmt.Errorf("git %v: %w", args[0], err)
	}
	return nil
}
