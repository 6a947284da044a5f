package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/isomerpages/site-provisioner/internal/application/consts"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/interfaces"
	"github.com/isomerpages/site-provisioner/internal/infra/metrics"
)

const createSuccessTemplate = `
The Isomer site for {{.RepoName}} has been created successfully!
Please follow up by doing the following:

Setup a GitHub account for yourself and others who will
edit the site by following the instructions in the link below:
https://v2.isomer.gov.sg/setup/create-a-github-account

Send this mail to {{.SupportEmail}} with your GitHub usernames
to give yourself and other users access to the repository.

The Isomer guide is available at https://v2.isomer.gov.sg.
`

// CreateSite drives the provisioning pipeline: repository, build app,
// optional domain go-live, URL patch, then the first real builds. Steps
// run strictly in that order; the first failure skips everything after
// it, and already-committed side effects are left for manual cleanup.
type CreateSite struct {
	repos    interfaces.RepositoryPublisher
	builds   interfaces.BuildPublisher
	triggers interfaces.BuildTrigger
	edge     interfaces.EdgeZonePublisher
	notifier interfaces.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewCreateSite(
	repos interfaces.RepositoryPublisher, builds interfaces.BuildPublisher, triggers interfaces.BuildTrigger,
	edge interfaces.EdgeZonePublisher, notifier interfaces.Notifier, m *metrics.Metrics, logger *slog.Logger,
) *CreateSite {
	return &CreateSite{
		repos:    repos,
		builds:   builds,
		triggers: triggers,
		edge:     edge,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Execute runs the pipeline and notifies the requester exactly once,
// whatever the outcome.
func (c *CreateSite) Execute(ctx context.Context, req dto.SiteCreationRequest) (dto.ProvisioningResult, error) {
	logger := c.logger.With("submissionId", req.SubmissionID, "repo", req.RepoName)

	var result dto.ProvisioningResult
	step, err := c.run(ctx, logger, req, &result)

	record := dto.OutcomeRecord{
		To:              []string{req.RequestorEmail},
		SubmissionID:    req.SubmissionID,
		RepoName:        req.RepoName,
		Action:          consts.ActionCreating,
		SuccessTemplate: createSuccessTemplate,
	}
	if err != nil {
		// The partial result is logged in structured form so operators
		// can locate resources the aborted pipeline left behind.
		logger.Error("provisioning aborted", "step", string(step), "result", result, "err", err)
		c.metrics.ProvisionFailures.WithLabelValues(string(step)).Inc()
		record.Err = err
		c.notifier.Notify(ctx, record)
		return result, fmt.Errorf("%v step: %w", step, err)
	}

	logger.Info("provisioned site", "result", result)
	c.metrics.SitesProvisioned.Inc()
	c.notifier.Notify(ctx, record)
	return result, nil
}

func (c *CreateSite) run(ctx context.Context, logger *slog.Logger, req dto.SiteCreationRequest, result *dto.ProvisioningResult) (consts.Step, error) {
	logger.Info("publishing repository")
	repoID, err := c.repos.Publish(ctx, req.RepoName)
	if err != nil {
		return consts.StepRepository, err
	}
	result.RepoID = repoID

	logger.Info("publishing build app")
	app, err := c.builds.Publish(ctx, req.RepoName, repoID)
	if err != nil {
		return consts.StepBuildApp, err
	}
	result.BuildAppID = app.ID
	result.BuildAppARN = app.ARN
	result.DefaultBuildDomain = app.DefaultDomain

	if req.DomainName != "" {
		logger.Info("going live on custom domain", "domain", req.DomainName)
		zone, err := c.edge.GoLive(ctx, req.RepoName, req.DomainName)
		if err != nil {
			return consts.StepEdgeZone, err
		}
		result.CDNZoneID = zone.ID
		result.CDNZoneName = zone.Name
		result.AliasedDomain = req.DomainName
	}

	logger.Info("patching site urls")
	if err := c.repos.PatchURLs(ctx, req.RepoName, app.DefaultDomain); err != nil {
		return consts.StepURLPatch, err
	}
	// The first real builds are started explicitly rather than relying
	// on the push above to cause them.
	for _, branch := range []string{consts.StagingBranch, consts.ProductionBranch} {
		if err := c.triggers.TriggerBuild(ctx, app.ID, branch); err != nil {
			return consts.StepURLPatch, err
		}
	}

	return "", nil
}
