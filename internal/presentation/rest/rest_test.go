package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/isomerpages/site-provisioner/internal/application"
	"github.com/isomerpages/site-provisioner/internal/application/commands"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/infra/metrics"
	"github.com/isomerpages/site-provisioner/internal/presentation/rest"
)

type stubOpener struct {
	submission rest.Submission
	err        error
}

func (o *stubOpener) Open(string, []byte) (rest.Submission, error) {
	return o.submission, o.err
}

type stubRepos struct {
	calls      int
	publishErr error
}

func (s *stubRepos) Publish(context.Context, string) (int64, error) {
	s.calls++
	return 42, s.publishErr
}

func (s *stubRepos) PatchURLs(context.Context, string, string) error { return nil }

type stubBuilds struct{}

func (stubBuilds) Publish(context.Context, string, int64) (dto.BuildApp, error) {
	return dto.BuildApp{ID: "app-1", DefaultDomain: "app-1.amplifyapp.com"}, nil
}
func (stubBuilds) TriggerBuild(context.Context, string, string) error { return nil }

type stubNotifier struct{}

func (stubNotifier) Notify(context.Context, dto.OutcomeRecord) {}

func newTestApp(opener rest.SubmissionOpener, repos *stubRepos) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := &application.Handlers{
		CreateSite: commands.NewCreateSite(repos, stubBuilds{}, stubBuilds{}, nil, stubNotifier{}, metrics.New(nil), logger),
	}
	server := rest.NewServer(handlers, opener, logger)
	app := fiber.New()
	rest.RegisterHandlers(app, server, prometheus.NewRegistry())
	return app
}

func createSiteSubmission() rest.Submission {
	return rest.Submission{
		SubmissionID: "sub-1",
		Responses: []rest.Field{
			{Question: "Government E-mail", Answer: "officer@agency.gov.sg"},
			{Question: "Agency", Answer: "MOE"},
			{Question: "Repository Name", Answer: "agency-site"},
			{Question: "Point of Contact", Answer: "91234567"},
		},
	}
}

func postSites(t *testing.T, app *fiber.App) (int, rest.MessageResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/sites", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var msg rest.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	return resp.StatusCode, msg
}

func TestCreateSiteSubmissionSucceeds(t *testing.T) {
	repos := &stubRepos{}
	app := newTestApp(&stubOpener{submission: createSiteSubmission()}, repos)

	status, msg := postSites(t, app)
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, "Request processed", msg.Message)
	require.Equal(t, 1, repos.calls)
}

func TestCreateSiteMissingAnswerNeverReachesOrchestrator(t *testing.T) {
	submission := createSiteSubmission()
	submission.Responses = submission.Responses[:1]
	repos := &stubRepos{}
	app := newTestApp(&stubOpener{submission: submission}, repos)

	status, msg := postSites(t, app)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, msg.Message, "Request processed with errors:")
	require.Contains(t, msg.Message, "Agency")
	require.Zero(t, repos.calls, "validation must run before any side effect")
}

func TestCreateSiteOrchestrationFailureIsGeneric(t *testing.T) {
	repos := &stubRepos{publishErr: errors.New("name already exists")}
	app := newTestApp(&stubOpener{submission: createSiteSubmission()}, repos)

	status, msg := postSites(t, app)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, msg.Message, "Request processed with errors:")
	require.Equal(t, 1, repos.calls)
}

func TestCreateSiteRejectsUnverifiedSubmission(t *testing.T) {
	repos := &stubRepos{}
	app := newTestApp(&stubOpener{err: errors.New("submission signature mismatch")}, repos)

	status, _ := postSites(t, app)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Zero(t, repos.calls)
}
