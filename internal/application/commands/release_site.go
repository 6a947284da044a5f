package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/errs"
	"github.com/isomerpages/site-provisioner/internal/application/interfaces"
	"github.com/isomerpages/site-provisioner/internal/infra/metrics"
	"github.com/isomerpages/site-provisioner/pkg/backoff"
	"github.com/isomerpages/site-provisioner/pkg/env"
)

// ReleaseConfig bounds the two wait loops of a release. Both share the
// same backoff shape and the overall deadline.
type ReleaseConfig struct {
	Deadline time.Duration
	Poll     backoff.Config
}

func NewReleaseConfig() *ReleaseConfig {
	return &ReleaseConfig{
		Deadline: getDuration("RELEASE_DEADLINE", 30*time.Minute),
		Poll: backoff.Config{
			MaxAttempts:  120,
			InitialDelay: getDuration("RELEASE_POLL_DELAY", 5*time.Second),
			MaxDelay:     getDuration("RELEASE_POLL_MAX_DELAY", time.Minute),
			Multiplier:   2.0,
		},
	}
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(env.GetEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return d
}

// ReleaseSite triggers a rebuild, waits for the deploy to become ready,
// then purges the site's edge cache until the provider confirms it.
// Both waits are bounded by the configured backoff and deadline, so a
// permanently-unready deploy surfaces as an error instead of spinning
// forever.
type ReleaseSite struct {
	cfg      *ReleaseConfig
	triggers interfaces.BuildTrigger
	deploys  interfaces.DeployWatcher
	zones    interfaces.ZoneManager
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewReleaseSite(
	cfg *ReleaseConfig, triggers interfaces.BuildTrigger, deploys interfaces.DeployWatcher,
	zones interfaces.ZoneManager, m *metrics.Metrics, logger *slog.Logger,
) *ReleaseSite {
	return &ReleaseSite{
		cfg:      cfg,
		triggers: triggers,
		deploys:  deploys,
		zones:    zones,
		metrics:  m,
		logger:   logger,
	}
}

func (c *ReleaseSite) Execute(ctx context.Context, target dto.ReleaseTarget) error {
	logger := c.logger.With("repo", target.RepoName, "appID", target.AppID, "branch", target.Branch)
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Deadline)
	defer cancel()

	logger.Info("triggering rebuild")
	if err := c.triggers.TriggerBuild(ctx, target.AppID, target.Branch); err != nil {
		return err
	}

	if err := c.waitUntilReady(ctx, logger, target); err != nil {
		return fmt.Errorf("waiting for deploy of %v: %w", target.RepoName, err)
	}

	if err := c.purgeUntilConfirmed(ctx, logger, target); err != nil {
		return fmt.Errorf("purging cache for %v: %w", target.RepoName, err)
	}

	logger.Info("release complete", "zoneID", target.ZoneID)
	return nil
}

func (c *ReleaseSite) waitUntilReady(ctx context.Context, logger *slog.Logger, target dto.ReleaseTarget) error {
	return backoff.Poll(ctx, c.cfg.Poll, func(ctx context.Context) (bool, error) {
		c.metrics.ReleasePolls.Inc()
		state, err := c.deploys.LatestDeployState(ctx, target.AppID, target.Branch)
		if err != nil {
			if !isRetryable(err) {
				return false, err
			}
			logger.Warn("deploy status check failed, will retry", "err", err)
			return false, nil
		}
		switch state {
		case dto.DeployReady:
			logger.Info("deploy is ready")
			return true, nil
		case dto.DeployFailed:
			return false, fmt.Errorf("deploy failed")
		default:
			logger.Info("deploy not ready yet", "state", string(state))
			return false, nil
		}
	})
}

func (c *ReleaseSite) purgeUntilConfirmed(ctx context.Context, logger *slog.Logger, target dto.ReleaseTarget) error {
	err := backoff.Poll(ctx, c.cfg.Poll, func(ctx context.Context) (bool, error) {
		if err := c.zones.PurgeZone(ctx, target.ZoneID); err != nil {
			if !isRetryable(err) {
				return false, err
			}
			logger.Warn("cache purge failed, will retry", "err", err)
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	c.metrics.CachePurges.Inc()
	return nil
}

// isRetryable tells a transient provider hiccup apart from a failure
// that must abort the release.
func isRetryable(err error) bool {
	var retryable errs.RetryableError
	return errors.As(err, &retryable)
}
