package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isomerpages/site-provisioner/internal/application"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/infra/db"
	"github.com/isomerpages/site-provisioner/pkg/env"
)

// SiteLister yields the live sites a sweep should release.
type SiteLister interface {
	ListSites(ctx context.Context) ([]db.Site, error)
}

// ReleaseSweep periodically rebuilds every live site and purges its
// edge cache once the deploy is ready. Sites release in parallel; one
// slow or failing site does not hold back the rest.
type ReleaseSweep struct {
	commands *application.Handlers
	sites    SiteLister
	cfg      *SweepConfig
	logger   *slog.Logger
	stop     chan struct{}
}

type SweepConfig struct {
	interval time.Duration
}

func NewSweepConfig() *SweepConfig {
	interval, err := time.ParseDuration(env.GetEnv("RELEASE_SWEEP_INTERVAL", "24h"))
	if err != nil {
		interval = 24 * time.Hour
	}
	return &SweepConfig{interval: interval}
}

func NewReleaseSweep(commands *application.Handlers, sites SiteLister, cfg *SweepConfig, logger *slog.Logger) *ReleaseSweep {
	return &ReleaseSweep{commands: commands, sites: sites, cfg: cfg, logger: logger, stop: make(chan struct{})}
}

// Start runs sweeps until Stop is called. Stopping cancels the sweep
// context, so in-flight releases abort instead of running to their
// deadline.
func (r *ReleaseSweep) Start() {
	r.logger.Info("starting release sweep", "interval", r.cfg.interval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-r.stop
		r.logger.Info("cancelling release sweep")
		cancel()
	}()

	ticker := time.NewTicker(r.cfg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *ReleaseSweep) sweep(ctx context.Context) {
	// each sweep gets its own id so parallel releases can be correlated
	logger := r.logger.With("sweepId", uuid.NewString())

	sites, err := r.sites.ListSites(ctx)
	if err != nil {
		logger.Error("listing live sites", "err", err)
		return
	}
	if len(sites) == 0 {
		logger.Debug("no live sites to release")
		return
	}

	var wg sync.WaitGroup
	for _, site := range sites {
		wg.Add(1)
		target := dto.ReleaseTarget{
			RepoName: site.RepoName,
			AppID:    site.AppID,
			Branch:   site.Branch,
			ZoneID:   site.ZoneID,
		}
		go func(target dto.ReleaseTarget) {
			defer wg.Done()
			if err := r.commands.ReleaseSite.Execute(ctx, target); err != nil {
				logger.Error("release failed", "repo", target.RepoName, "err", err)
			}
		}(target)
	}
	wg.Wait()
	logger.Info("release sweep finished", "sites", len(sites))
}

// Stop returns immediately even while a sweep is running.
func (r *ReleaseSweep) Stop() {
	r.logger.Info("stopping release sweep")
	close(r.stop)
}
