package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/isomerpages/site-provisioner/internal/infra/git"
)

// generateFromBase prepares the working tree for a new site from the
// base template. An already present tree is reused as is, so a tree
// staged by hand ahead of time wins over the template.
func (p *Publisher) generateFromBase(ctx context.Context, repoName string) (*git.Worktree, error) {
	dir := filepath.Join(p.workDir, repoName)
	if _, err := os.Stat(dir); err == nil {
		return git.NewWorktree(dir), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(p.workDir, 0o755); err != nil {
		return nil, err
	}
	if err := git.Clone(ctx, p.baseRemote(), dir); err != nil {
		return nil, fmt.Errorf("generate site from %v: %w", p.cfg.BaseRepo, err)
	}
	// the template's history must not leak into the new site
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return nil, err
	}

	p.logger.Info("generated site from base repo", "repo", repoName, "base", p.cfg.BaseRepo)
	return git.NewWorktree(dir), nil
}

func (p *Publisher) baseRemote() string {
	if strings.ContainsAny(p.cfg.BaseRepo, "/:") {
		return p.cfg.BaseRepo
	}
	return fmt.Sprintf("https://github.com/%v/%v.git", p.cfg.Org, p.cfg.BaseRepo)
}
