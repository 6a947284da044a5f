package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/isomerpages/site-provisioner/internal/application"
	"github.com/isomerpages/site-provisioner/internal/application/commands"
	"github.com/isomerpages/site-provisioner/internal/application/interfaces"
	"github.com/isomerpages/site-provisioner/internal/infra/build"
	"github.com/isomerpages/site-provisioner/internal/infra/cdn"
	"github.com/isomerpages/site-provisioner/internal/infra/config"
	"github.com/isomerpages/site-provisioner/internal/infra/dns"
	"github.com/isomerpages/site-provisioner/internal/infra/mail"
	"github.com/isomerpages/site-provisioner/internal/infra/metrics"
	"github.com/isomerpages/site-provisioner/internal/infra/repository"
	"github.com/isomerpages/site-provisioner/pkg/env"
)

type deps struct {
	handlers  *application.Handlers
	registry  *prometheus.Registry
	logger    *slog.Logger
	provision *config.ProvisionConfig
}

// buildDeps wires the full command set against the real vendor
// clients. The site recorder is nil for one-shot CLI invocations that
// run without a database.
func buildDeps(ctx context.Context, recorder interfaces.SiteRecorder) (*deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	provisionConfig := config.NewProvisionConfig()

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	repos := repository.NewPublisher(repository.NewConfig(), provisionConfig.WorkDir, logger)
	builds := build.NewAmplifyPublisher(build.NewConfig(), awsCfg, logger)
	zones := cdn.NewKeyCDN(cdn.NewConfig(), logger)
	verifier := dns.NewVerifier()

	from := env.GetEnv("MAIL_FROM", provisionConfig.SupportEmail)
	transport := mail.NewTransport(provisionConfig.IsProduction(), from, awsCfg, logger)
	notifier := commands.NewNotifyOutcome(transport, provisionConfig.SupportEmail, m, logger)

	goLive := commands.NewGoLive(builds, zones, verifier, repos, recorder, notifier, logger)
	handlers := &application.Handlers{
		CreateSite:    commands.NewCreateSite(repos, builds, builds, goLive, notifier, m, logger),
		GoLive:        goLive,
		ManageUsers:   commands.NewManageUsers(repos, notifier, logger),
		ReleaseSite:   commands.NewReleaseSite(commands.NewReleaseConfig(), builds, builds, zones, m, logger),
		NotifyOutcome: notifier,
	}

	return &deps{
		handlers:  handlers,
		registry:  registry,
		logger:    logger,
		provision: provisionConfig,
	}, nil
}
