package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/isomerpages/site-provisioner/internal/application/consts"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/interfaces"
)

const liveSuccessTemplate = `
The Isomer site for {{.RepoName}} has been made live successfully!
Please note the following:

KeyCDN Zone at {{.ZoneName}}

Zone Aliased to {{.DomainName}}

If your domain name starts with www, a request has been filed
to redirect your root domain to your www domain.
`

// GoLive wires a custom domain to a site: CDN zone, DNS precondition
// check, zone alias, and a redirect request for www apexes. Steps are
// strictly ordered; a failure aborts the remainder and leaves earlier
// resources (including a created zone) in place.
type GoLive struct {
	apps      interfaces.BuildAppFinder
	zones     interfaces.ZoneManager
	verifier  interfaces.DNSVerifier
	redirects interfaces.RedirectFiler
	recorder  interfaces.SiteRecorder
	notifier  interfaces.Notifier
	logger    *slog.Logger
}

func NewGoLive(
	apps interfaces.BuildAppFinder, zones interfaces.ZoneManager, verifier interfaces.DNSVerifier,
	redirects interfaces.RedirectFiler, recorder interfaces.SiteRecorder, notifier interfaces.Notifier,
	logger *slog.Logger,
) *GoLive {
	return &GoLive{
		apps:      apps,
		zones:     zones,
		verifier:  verifier,
		redirects: redirects,
		recorder:  recorder,
		notifier:  notifier,
		logger:    logger,
	}
}

// GoLive runs the flow without notifying; the provisioning orchestrator
// uses it as one step of its pipeline and owns the single notification.
func (c *GoLive) GoLive(ctx context.Context, repoName, domainName string) (dto.Zone, error) {
	logger := c.logger.With("repo", repoName, "domain", domainName)

	app, err := c.apps.FindApp(ctx, repoName)
	if err != nil {
		return dto.Zone{}, err
	}
	originURL := fmt.Sprintf("https://%v.%v", consts.ProductionBranch, app.DefaultDomain)

	logger.Info("creating cdn zone", "origin", originURL)
	zone, err := c.zones.CreateZone(ctx, repoName, originURL)
	if err != nil {
		return dto.Zone{}, err
	}

	logger.Info("verifying dns delegation")
	if err := c.verifier.Verify(ctx, domainName, c.zones.EdgeHost(zone.Name)); err != nil {
		return zone, err
	}

	logger.Info("aliasing domain to zone", "zoneID", zone.ID)
	if err := c.zones.CreateAlias(ctx, domainName, zone.ID); err != nil {
		return zone, err
	}

	if strings.HasPrefix(domainName, "www.") {
		logger.Info("filing apex redirect request")
		if err := c.redirects.FileRedirect(ctx, domainName); err != nil {
			return zone, err
		}
	}

	if c.recorder != nil {
		target := dto.ReleaseTarget{
			RepoName: repoName,
			AppID:    app.ID,
			Branch:   consts.ProductionBranch,
			ZoneID:   zone.ID,
		}
		if err := c.recorder.RecordSite(ctx, target, domainName); err != nil {
			logger.Error("live site not recorded in inventory", "err", err)
		}
	}

	return zone, nil
}

// Execute serves the standalone go-live submission: it runs the flow
// and sends exactly one outcome mail.
func (c *GoLive) Execute(ctx context.Context, req dto.GoLiveRequest) (dto.Zone, error) {
	zone, err := c.GoLive(ctx, req.RepoName, req.DomainName)

	record := dto.OutcomeRecord{
		To:              []string{req.RequestorEmail},
		SubmissionID:    req.SubmissionID,
		RepoName:        req.RepoName,
		Action:          consts.ActionCreating,
		SuccessTemplate: liveSuccessTemplate,
		Data: map[string]any{
			"ZoneName":   zone.Name,
			"DomainName": req.DomainName,
		},
		Err: err,
	}
	c.notifier.Notify(ctx, record)

	if err != nil {
		return zone, err
	}
	return zone, nil
}
