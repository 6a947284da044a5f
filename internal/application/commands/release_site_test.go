package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/isomerpages/site-provisioner/internal/application/commands"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/errs"
	"github.com/isomerpages/site-provisioner/internal/infra/metrics"
	"github.com/isomerpages/site-provisioner/pkg/backoff"
)

func releaseFixture(rec *recorder, builds *fakeBuilds, zones *fakeZones) *commands.ReleaseSite {
	cfg := &commands.ReleaseConfig{
		Deadline: 5 * time.Second,
		Poll: backoff.Config{
			MaxAttempts:  10,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   2.0,
		},
	}
	return commands.NewReleaseSite(cfg, builds, builds, zones, metrics.New(nil), discardLogger())
}

func releaseTarget() dto.ReleaseTarget {
	return dto.ReleaseTarget{RepoName: "agency-site", AppID: "app-1", Branch: "master", ZoneID: "9001"}
}

func TestReleaseWaitsForReadyThenPurgesOnce(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{rec: rec, states: []dto.DeployState{
		dto.DeployBuilding, dto.DeployBuilding, dto.DeployBuilding, dto.DeployReady,
	}}
	zones := &fakeZones{rec: rec}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.NoError(t, err)

	require.Equal(t, 4, builds.stateCalls, "three building polls then one ready poll")
	require.Equal(t, 1, zones.purgeCalls)
	require.Contains(t, builds.triggered, "app-1/master")
}

func TestReleaseAbortsWhenDeployFails(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{rec: rec, states: []dto.DeployState{dto.DeployBuilding, dto.DeployFailed}}
	zones := &fakeZones{rec: rec}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.Error(t, err)
	require.Zero(t, zones.purgeCalls, "a failed deploy must not be released")
}

func TestReleaseRetriesTransientStatusErrors(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{
		rec:       rec,
		states:    []dto.DeployState{"", dto.DeployReady},
		stateErrs: []error{errs.RetryableError{Err: errors.New("throttled")}, nil},
	}
	zones := &fakeZones{rec: rec}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.NoError(t, err)
	require.Equal(t, 2, builds.stateCalls)
	require.Equal(t, 1, zones.purgeCalls)
}

func TestReleaseAbortsOnTerminalStatusError(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{
		rec:       rec,
		states:    []dto.DeployState{""},
		stateErrs: []error{errs.BuildPlatformError{AppID: "app-1", Err: errors.New("app deleted")}},
	}
	zones := &fakeZones{rec: rec}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.Error(t, err)
	require.Equal(t, 1, builds.stateCalls, "a terminal status error must not be retried")
	require.Zero(t, zones.purgeCalls)
}

func TestReleaseRetriesFailedPurge(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{rec: rec, states: []dto.DeployState{dto.DeployReady}}
	zones := &fakeZones{rec: rec, purgeErrs: []error{errs.RetryableError{Err: errors.New("bad gateway")}, nil}}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.NoError(t, err)
	require.Equal(t, 2, zones.purgeCalls)
}

func TestReleaseAbortsOnTerminalPurgeError(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{rec: rec, states: []dto.DeployState{dto.DeployReady}}
	zones := &fakeZones{rec: rec, purgeErrs: []error{errors.New("zone not found")}}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.Error(t, err)
	require.Equal(t, 1, zones.purgeCalls, "a terminal purge error must not be retried")
}

func TestReleaseGivesUpAfterAttemptBudget(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{rec: rec, states: []dto.DeployState{dto.DeployBuilding}}
	zones := &fakeZones{rec: rec}
	command := releaseFixture(rec, builds, zones)

	err := command.Execute(context.Background(), releaseTarget())
	require.Error(t, err)
	require.Equal(t, 10, builds.stateCalls)
	require.Zero(t, zones.purgeCalls)
}

func TestReleaseStopsAtDeadline(t *testing.T) {
	rec := &recorder{}
	builds := &fakeBuilds{rec: rec, states: []dto.DeployState{dto.DeployBuilding}}
	zones := &fakeZones{rec: rec}
	cfg := &commands.ReleaseConfig{
		Deadline: 20 * time.Millisecond,
		Poll: backoff.Config{
			MaxAttempts:  1000,
			InitialDelay: 5 * time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2.0,
		},
	}
	command := commands.NewReleaseSite(cfg, builds, builds, zones, metrics.New(nil), discardLogger())

	err := command.Execute(context.Background(), releaseTarget())
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, zones.purgeCalls)
}
