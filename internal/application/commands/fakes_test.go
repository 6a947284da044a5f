package commands_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder keeps the interleaved order of vendor calls across fakes.
type recorder struct {
	calls []string
}

func (r *recorder) record(call string) {
	r.calls = append(r.calls, call)
}

type fakeRepos struct {
	rec         *recorder
	repoID      int64
	publishErr  error
	patchErr    error
	patchedWith string
}

func (f *fakeRepos) Publish(_ context.Context, repoName string) (int64, error) {
	f.rec.record("repos.Publish " + repoName)
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	return f.repoID, nil
}

func (f *fakeRepos) PatchURLs(_ context.Context, repoName, defaultBuildDomain string) error {
	f.rec.record("repos.PatchURLs " + repoName)
	f.patchedWith = defaultBuildDomain
	return f.patchErr
}

type fakeBuilds struct {
	rec        *recorder
	app        dto.BuildApp
	publishErr error
	triggerErr error
	triggered  []string

	states     []dto.DeployState
	stateErrs  []error
	stateCalls int
}

func (f *fakeBuilds) Publish(_ context.Context, repoName string, _ int64) (dto.BuildApp, error) {
	f.rec.record("builds.Publish " + repoName)
	if f.publishErr != nil {
		return dto.BuildApp{}, f.publishErr
	}
	return f.app, nil
}

func (f *fakeBuilds) TriggerBuild(_ context.Context, appID, branch string) error {
	f.rec.record("builds.TriggerBuild " + branch)
	f.triggered = append(f.triggered, appID+"/"+branch)
	return f.triggerErr
}

func (f *fakeBuilds) LatestDeployState(context.Context, string, string) (dto.DeployState, error) {
	i := f.stateCalls
	f.stateCalls++
	if i < len(f.stateErrs) && f.stateErrs[i] != nil {
		return "", f.stateErrs[i]
	}
	if i >= len(f.states) {
		return f.states[len(f.states)-1], nil
	}
	return f.states[i], nil
}

func (f *fakeBuilds) FindApp(_ context.Context, name string) (dto.BuildApp, error) {
	f.rec.record("builds.FindApp " + name)
	return f.app, nil
}

type fakeZones struct {
	rec        *recorder
	zone       dto.Zone
	createErr  error
	aliasErr   error
	purgeErrs  []error
	purgeCalls int
}

func (f *fakeZones) CreateZone(_ context.Context, name, originURL string) (dto.Zone, error) {
	f.rec.record("zones.CreateZone " + name + " " + originURL)
	if f.createErr != nil {
		return dto.Zone{}, f.createErr
	}
	return f.zone, nil
}

func (f *fakeZones) CreateAlias(_ context.Context, domainName, zoneID string) error {
	f.rec.record("zones.CreateAlias " + domainName + " " + zoneID)
	return f.aliasErr
}

func (f *fakeZones) PurgeZone(_ context.Context, zoneID string) error {
	i := f.purgeCalls
	f.purgeCalls++
	f.rec.record("zones.PurgeZone " + zoneID)
	if i < len(f.purgeErrs) {
		return f.purgeErrs[i]
	}
	return nil
}

func (f *fakeZones) EdgeHost(zoneName string) string {
	return zoneName + ".kxcdn.com"
}

type fakeVerifier struct {
	rec *recorder
	err error
}

func (f *fakeVerifier) Verify(_ context.Context, domainName, target string) error {
	f.rec.record("dns.Verify " + domainName + " " + target)
	return f.err
}

type fakeRedirects struct {
	rec *recorder
	err error
}

func (f *fakeRedirects) FileRedirect(_ context.Context, domainName string) error {
	f.rec.record("redirects.FileRedirect " + domainName)
	return f.err
}

type fakeRecorder struct {
	rec     *recorder
	err     error
	targets []dto.ReleaseTarget
}

func (f *fakeRecorder) RecordSite(_ context.Context, target dto.ReleaseTarget, domain string) error {
	f.rec.record("recorder.RecordSite " + target.RepoName + " " + domain)
	f.targets = append(f.targets, target)
	return f.err
}

type fakeEdge struct {
	rec  *recorder
	zone dto.Zone
	err  error
}

func (f *fakeEdge) GoLive(_ context.Context, repoName, domainName string) (dto.Zone, error) {
	f.rec.record("edge.GoLive " + repoName + " " + domainName)
	if f.err != nil {
		return dto.Zone{}, f.err
	}
	return f.zone, nil
}

type fakeTeams struct {
	rec      *recorder
	notFound []string
	err      error
	seen     dto.UserInstructions
}

func (f *fakeTeams) ManageTeam(_ context.Context, instructions dto.UserInstructions) ([]string, error) {
	f.rec.record("teams.ManageTeam " + instructions.TeamName)
	f.seen = instructions
	return f.notFound, f.err
}

type fakeNotifier struct {
	records []dto.OutcomeRecord
}

func (f *fakeNotifier) Notify(_ context.Context, record dto.OutcomeRecord) {
	f.records = append(f.records, record)
}
