// Package build registers sites with AWS Amplify and reports deploys.
package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/amplify"
	"github.com/aws/aws-sdk-go-v2/service/amplify/types"

	"github.com/isomerpages/site-provisioner/internal/application/consts"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/errs"
)

// buildSpec installs dependencies, runs the hosted build script and
// publishes the generated _site directory.
const buildSpec = `version: 1
frontend:
  phases:
    preBuild:
      commands:
        - bundle install
    build:
      commands:
        - curl https://raw.githubusercontent.com/opengovsg/isomer-build/amplify/build.sh | bash
  artifacts:
    baseDirectory: _site
    files:
      - '**/*'
  cache:
    paths: []
`

type AmplifyPublisher struct {
	cfg    *Config
	client *amplify.Client
	logger *slog.Logger
}

func NewAmplifyPublisher(cfg *Config, awsCfg aws.Config, logger *slog.Logger) *AmplifyPublisher {
	return &AmplifyPublisher{
		cfg:    cfg,
		client: amplify.NewFromConfig(awsCfg),
		logger: logger,
	}
}

// Publish registers the app against the repository and creates the two
// deployment branches. Each call can fail independently; identifiers
// learned before the failure are carried on the error.
func (p *AmplifyPublisher) Publish(ctx context.Context, repoName string, repoID int64) (dto.BuildApp, error) {
	repository := fmt.Sprintf("https://github.com/%v/%v.git", p.cfg.Org, repoName)
	p.logger.Info("publishing to amplify", "repository", repository, "repoID", repoID)

	out, err := p.client.CreateApp(ctx, &amplify.CreateAppInput{
		Name:        aws.String(repoName),
		Repository:  aws.String(repository),
		AccessToken: aws.String(p.cfg.GithubToken),
		BuildSpec:   aws.String(buildSpec),
	})
	if err != nil {
		return dto.BuildApp{}, errs.BuildPlatformError{AppName: repoName, Err: fmt.Errorf("create app: %w", err)}
	}

	app := dto.BuildApp{
		ID:            aws.ToString(out.App.AppId),
		ARN:           aws.ToString(out.App.AppArn),
		Name:          aws.ToString(out.App.Name),
		DefaultDomain: aws.ToString(out.App.DefaultDomain),
	}
	if app.DefaultDomain == "" {
		app.DefaultDomain = app.ID + ".amplifyapp.com"
	}

	branches := []struct {
		name  string
		stage types.Stage
	}{
		{consts.ProductionBranch, types.StageProduction},
		{consts.StagingBranch, types.StageDevelopment},
	}
	for _, branch := range branches {
		_, err = p.client.CreateBranch(ctx, &amplify.CreateBranchInput{
			AppId:      aws.String(app.ID),
			BranchName: aws.String(branch.name),
			Framework:  aws.String(p.cfg.Framework),
			Stage:      branch.stage,
		})
		if err != nil {
			return app, errs.BuildPlatformError{
				AppName: app.Name,
				AppARN:  app.ARN,
				AppID:   app.ID,
				Err:     fmt.Errorf("create %v branch: %w", branch.name, err),
			}
		}
	}

	p.logger.Info("published build app", "app", app.Name, "appID", app.ID, "defaultDomain", app.DefaultDomain)
	return app, nil
}

// TriggerBuild starts a release build for the branch.
func (p *AmplifyPublisher) TriggerBuild(ctx context.Context, appID, branch string) error {
	_, err := p.client.StartJob(ctx, &amplify.StartJobInput{
		AppId:      aws.String(appID),
		BranchName: aws.String(branch),
		JobType:    types.JobTypeRelease,
	})
	if err != nil {
		return errs.BuildPlatformError{AppID: appID, Err: fmt.Errorf("start %v build: %w", branch, err)}
	}
	return nil
}

// LatestDeployState reports the status of the most recent job for the
// branch. A branch without jobs reports pending; a listing failure is
// retryable.
func (p *AmplifyPublisher) LatestDeployState(ctx context.Context, appID, branch string) (dto.DeployState, error) {
	out, err := p.client.ListJobs(ctx, &amplify.ListJobsInput{
		AppId:      aws.String(appID),
		BranchName: aws.String(branch),
	})
	if err != nil {
		return "", errs.RetryableError{Err: errs.BuildPlatformError{AppID: appID, Err: fmt.Errorf("list jobs: %w", err)}}
	}
	if len(out.JobSummaries) == 0 {
		return dto.DeployPending, nil
	}
	return mapJobStatus(out.JobSummaries[0].Status), nil
}

// FindApp pages through the account's apps looking for one by name.
func (p *AmplifyPublisher) FindApp(ctx context.Context, name string) (dto.BuildApp, error) {
	var token *string
	for {
		out, err := p.client.ListApps(ctx, &amplify.ListAppsInput{NextToken: token})
		if err != nil {
			return dto.BuildApp{}, errs.BuildPlatformError{AppName: name, Err: fmt.Errorf("list apps: %w", err)}
		}
		for _, app := range out.Apps {
			if aws.ToString(app.Name) == name {
				return dto.BuildApp{
					ID:            aws.ToString(app.AppId),
					ARN:           aws.ToString(app.AppArn),
					Name:          aws.ToString(app.Name),
					DefaultDomain: aws.ToString(app.DefaultDomain),
				}, nil
			}
		}
		token = out.NextToken
		if token == nil {
			return dto.BuildApp{}, errs.BuildPlatformError{AppName: name, Err: fmt.Errorf("app %v not found", name)}
		}
	}
}

func mapJobStatus(status types.JobStatus) dto.DeployState {
	switch status {
	case types.JobStatusSucceed:
		return dto.DeployReady
	case types.JobStatusFailed, types.JobStatusCancelled, types.JobStatusCancelling:
		return dto.DeployFailed
	case types.JobStatusRunning:
		return dto.DeployBuilding
	default:
		return dto.DeployPending
	}
}
