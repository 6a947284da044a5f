// Package repository publishes site repositories to GitHub.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"

	"github.com/isomerpages/site-provisioner/internal/application/consts"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/errs"
	"github.com/isomerpages/site-provisioner/internal/infra/git"
)

const configFile = "_config.yml"

type Publisher struct {
	cfg     *Config
	workDir string
	client  *github.Client
	logger  *slog.Logger
}

func NewPublisher(cfg *Config, workDir string, logger *slog.Logger) *Publisher {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	tc := oauth2.NewClient(context.Background(), ts)
	return &Publisher{
		cfg:     cfg,
		workDir: workDir,
		client:  github.NewClient(tc),
		logger:  logger,
	}
}

// Publish creates the repository and its access-control team, then
// pushes the prepared working tree: staging first so it becomes the
// default branch, master after.
func (p *Publisher) Publish(ctx context.Context, repoName string) (int64, error) {
	repo, _, err := p.client.Repositories.Create(ctx, p.cfg.Org, &github.Repository{
		Name:    github.String(repoName),
		Private: github.Bool(false),
	})
	if err != nil {
		return 0, errs.RepositoryError{RepoName: repoName, Err: fmt.Errorf("create repo: %w", err)}
	}

	_, _, err = p.client.Teams.CreateTeam(ctx, p.cfg.Org, github.NewTeam{
		Name:    repoName,
		Privacy: github.String("closed"),
	})
	if err != nil {
		return 0, errs.RepositoryError{RepoName: repoName, Err: fmt.Errorf("create team: %w", err)}
	}

	tree, err := p.generateFromBase(ctx, repoName)
	if err != nil {
		return 0, errs.RepositoryError{RepoName: repoName, Err: err}
	}
	if err := tree.Init(ctx, consts.StagingBranch); err != nil {
		return 0, errs.RepositoryError{RepoName: repoName, Err: err}
	}
	if err := tree.CommitAll(ctx, "Initial commit"); err != nil {
		return 0, errs.RepositoryError{RepoName: repoName, Err: err}
	}
	if err := tree.AddRemote(ctx, "origin", p.remoteURL(repoName)); err != nil {
		return 0, errs.RepositoryError{RepoName: repoName, Err: err}
	}
	for _, ref := range []string{consts.StagingBranch, consts.ProductionBranch} {
		if err := tree.Push(ctx, "origin", ref); err != nil {
			return 0, errs.RepositoryError{RepoName: repoName, Err: err}
		}
	}

	p.logger.Info("published repository", "repo", repoName, "repoID", repo.GetID())
	return repo.GetID(), nil
}

// PatchURLs writes the canonical site URLs into the working tree,
// pushes both branches again, then tightens the repository: a
// description naming the environments, review-protected master, push
// permission for the site team and admin for the admin team.
func (p *Publisher) PatchURLs(ctx context.Context, repoName, defaultBuildDomain string) error {
	stagingURL := fmt.Sprintf("https://%v.%v", consts.StagingBranch, defaultBuildDomain)
	productionURL := fmt.Sprintf("https://%v.%v", consts.ProductionBranch, defaultBuildDomain)

	tree := git.NewWorktree(filepath.Join(p.workDir, repoName))
	if err := setSiteURLs(tree.Dir(), stagingURL, productionURL); err != nil {
		return errs.RepositoryError{RepoName: repoName, Err: err}
	}
	if err := tree.CommitAll(ctx, "Set URLs"); err != nil {
		return errs.RepositoryError{RepoName: repoName, Err: err}
	}
	for _, ref := range []string{consts.StagingBranch, consts.ProductionBranch} {
		if err := tree.Push(ctx, "origin", ref); err != nil {
			return errs.RepositoryError{RepoName: repoName, Err: err}
		}
	}

	description := fmt.Sprintf("Staging: %v | Production: %v", stagingURL, productionURL)
	if _, _, err := p.client.Repositories.Edit(ctx, p.cfg.Org, repoName, &github.Repository{
		Description: github.String(description),
	}); err != nil {
		return errs.RepositoryError{RepoName: repoName, Err: fmt.Errorf("update description: %w", err)}
	}

	if _, _, err := p.client.Repositories.UpdateBranchProtection(ctx, p.cfg.Org, repoName, consts.ProductionBranch,
		&github.ProtectionRequest{
			RequiredPullRequestReviews: &github.PullRequestReviewsEnforcementRequest{
				RequiredApprovingReviewCount: 1,
			},
			EnforceAdmins: true,
		}); err != nil {
		return errs.RepositoryError{RepoName: repoName, Err: fmt.Errorf("protect %v: %w", consts.ProductionBranch, err)}
	}

	for team, permission := range map[string]string{
		p.cfg.AdminTeam: "admin",
		repoName:        "push",
	} {
		if _, err := p.client.Teams.AddTeamRepoBySlug(ctx, p.cfg.Org, team, p.cfg.Org, repoName,
			&github.TeamAddTeamRepoOptions{Permission: permission}); err != nil {
			return errs.RepositoryError{RepoName: repoName, Err: fmt.Errorf("grant %v to %v: %w", permission, team, err)}
		}
	}

	p.logger.Info("patched site urls", "repo", repoName, "staging", stagingURL, "production", productionURL)
	return nil
}

// ManageTeam applies membership changes and returns usernames GitHub
// does not know about.
func (p *Publisher) ManageTeam(ctx context.Context, instructions dto.UserInstructions) ([]string, error) {
	if _, _, err := p.client.Teams.GetTeamBySlug(ctx, p.cfg.Org, instructions.TeamName); err != nil {
		return nil, fmt.Errorf("team %v: %w", instructions.TeamName, err)
	}

	var notFound []string
	for _, username := range instructions.Add {
		_, _, err := p.client.Teams.AddTeamMembershipBySlug(ctx, p.cfg.Org, instructions.TeamName, username, nil)
		if isNotFound(err) {
			notFound = append(notFound, username)
			continue
		}
		if err != nil {
			return notFound, fmt.Errorf("add %v: %w", username, err)
		}
	}
	for _, username := range instructions.Remove {
		_, err := p.client.Teams.RemoveTeamMembershipBySlug(ctx, p.cfg.Org, instructions.TeamName, username)
		if isNotFound(err) {
			notFound = append(notFound, username)
			continue
		}
		if err != nil {
			return notFound, fmt.Errorf("remove %v: %w", username, err)
		}
	}
	return notFound, nil
}

// FileRedirect opens a pull request against the redirects repository
// asking for the bare apex of a www domain to be redirected.
func (p *Publisher) FileRedirect(ctx context.Context, domainName string) error {
	bare := strings.TrimPrefix(domainName, "www.")
	branch := "redirect-" + strings.ReplaceAll(bare, ".", "-")

	base, _, err := p.client.Git.GetRef(ctx, p.cfg.Org, p.cfg.RedirectsRepo, "refs/heads/"+consts.ProductionBranch)
	if err != nil {
		return fmt.Errorf("redirects base ref: %w", err)
	}
	_, _, err = p.client.Git.CreateRef(ctx, p.cfg.Org, p.cfg.RedirectsRepo, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: base.Object.SHA},
	})
	if err != nil {
		return fmt.Errorf("redirects branch: %w", err)
	}

	rule := fmt.Sprintf("%v https://%v\n", bare, domainName)
	_, _, err = p.client.Repositories.CreateFile(ctx, p.cfg.Org, p.cfg.RedirectsRepo,
		filepath.Join("rules", bare+".conf"),
		&github.RepositoryContentFileOptions{
			Message: github.String("Redirect " + bare),
			Content: []byte(rule),
			Branch:  github.String(branch),
		})
	if err != nil {
		return fmt.Errorf("redirect rule: %w", err)
	}

	_, _, err = p.client.PullRequests.Create(ctx, p.cfg.Org, p.cfg.RedirectsRepo, &github.NewPullRequest{
		Title: github.String(fmt.Sprintf("Redirect %v to %v", bare, domainName)),
		Head:  github.String(branch),
		Base:  github.String(consts.ProductionBranch),
	})
	if err != nil {
		return fmt.Errorf("redirect pull request: %w", err)
	}

	p.logger.Info("filed domain redirect", "domain", domainName)
	return nil
}

func (p *Publisher) remoteURL(repoName string) string {
	return fmt.Sprintf("https://x-access-token:%v@github.com/%v/%v.git", p.cfg.AccessToken, p.cfg.Org, repoName)
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

// setSiteURLs rewrites the staging and prod keys of the site config,
// appending them when absent.
func setSiteURLs(dir, stagingURL, productionURL string) error {
	path := filepath.Join(dir, configFile)
	var lines []string
	if raw, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	replaced := map[string]bool{}
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "staging:"):
			lines[i] = "staging: " + stagingURL
			replaced["staging"] = true
		case strings.HasPrefix(line, "prod:"):
			lines[i] = "prod: " + productionURL
			replaced["prod"] = true
		}
	}
	if !replaced["staging"] {
		lines = append(lines, "staging: "+stagingURL)
	}
	if !replaced["prod"] {
		lines = append(lines, "prod: "+productionURL)
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}
