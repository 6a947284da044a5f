// Package interfaces declares the vendor-facing contracts the
// application commands depend on. Implementations live under
// internal/infra; tests substitute fakes.
package interfaces

import (
	"context"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
)

// RepositoryPublisher creates and finishes off the source-control side
// of a site: repository, team, initial branches and the URL patch.
type RepositoryPublisher interface {
	// Publish creates the org repository and its team, commits the
	// prepared working tree and pushes staging before master.
	Publish(ctx context.Context, repoName string) (int64, error)
	// PatchURLs commits the canonical site URLs, pushes both branches
	// again (staging first), updates the repo description, protects
	// master and grants team permissions.
	PatchURLs(ctx context.Context, repoName, defaultBuildDomain string) error
}

// BuildPublisher registers a site with the build platform.
type BuildPublisher interface {
	Publish(ctx context.Context, repoName string, repoID int64) (dto.BuildApp, error)
	// TriggerBuild starts a build explicitly instead of relying on a
	// push to cause one.
	TriggerBuild(ctx context.Context, appID, branch string) error
}

// DeployWatcher reports the state of the most recent deploy of a
// branch.
type DeployWatcher interface {
	LatestDeployState(ctx context.Context, appID, branch string) (dto.DeployState, error)
}

// BuildTrigger starts a build for a branch of an existing app.
type BuildTrigger interface {
	TriggerBuild(ctx context.Context, appID, branch string) error
}

// BuildAppFinder locates an already-registered build app by name.
type BuildAppFinder interface {
	FindApp(ctx context.Context, name string) (dto.BuildApp, error)
}

// ZoneManager is the CDN provider surface used by the go-live and
// release flows.
type ZoneManager interface {
	CreateZone(ctx context.Context, name, originURL string) (dto.Zone, error)
	CreateAlias(ctx context.Context, domainName, zoneID string) error
	PurgeZone(ctx context.Context, zoneID string) error
	// EdgeHost is the hostname a custom domain must resolve to before
	// it can be aliased onto the zone.
	EdgeHost(zoneName string) string
}

// DNSVerifier checks that a custom domain already resolves toward the
// expected target. It never modifies DNS.
type DNSVerifier interface {
	Verify(ctx context.Context, domainName, target string) error
}

// RedirectFiler files a request to redirect the bare apex domain to its
// www form.
type RedirectFiler interface {
	FileRedirect(ctx context.Context, domainName string) error
}

// TeamManager applies membership changes to an access-control group and
// returns the usernames that could not be found.
type TeamManager interface {
	ManageTeam(ctx context.Context, instructions dto.UserInstructions) ([]string, error)
}

// Notifier sends exactly one outcome mail. It never reports transport
// failures to its caller.
type Notifier interface {
	Notify(ctx context.Context, record dto.OutcomeRecord)
}

// EdgeZonePublisher runs the domain go-live flow for a site.
type EdgeZonePublisher interface {
	GoLive(ctx context.Context, repoName, domainName string) (dto.Zone, error)
}

// SiteRecorder persists the inventory of live sites consumed by the
// release scheduler. Pipeline state itself is never persisted.
type SiteRecorder interface {
	RecordSite(ctx context.Context, target dto.ReleaseTarget, domain string) error
}
