package rest

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/isomerpages/site-provisioner/internal/application"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type Server struct {
	commands *application.Handlers
	opener   SubmissionOpener
	logger   *slog.Logger
}

func NewServer(commands *application.Handlers, opener SubmissionOpener, logger *slog.Logger) *Server {
	return &Server{commands: commands, opener: opener, logger: logger}
}

func RegisterHandlers(app *fiber.App, s *Server, registry *prometheus.Registry) {
	app.Post("/sites", s.CreateSite)
	app.Post("/live", s.GoLiveSite)
	app.Post("/users", s.ManageUsers)
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

func (s *Server) CreateSite(c *fiber.Ctx) error {
	submission, err := s.openSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: err.Error()})
	}
	s.logger.Info("handling create-site submission", "submissionId", submission.SubmissionID)

	req := dto.SiteCreationRequest{
		SubmissionID:   submission.SubmissionID,
		RepoName:       submission.Answer("Repository Name"),
		RequestorEmail: submission.Answer("Government E-mail"),
		AgencyName:     submission.Answer("Agency"),
		Contact:        submission.Answer("Point of Contact"),
		SiteName:       submission.Answer("Site Name"),
		DomainName:     normalizeDomain(submission.Answer("Domain Name")),
	}
	if err := req.Validate(); err != nil {
		return errorsProcessed(c, fiber.StatusBadRequest, err)
	}

	if _, err := s.commands.CreateSite.Execute(c.UserContext(), req); err != nil {
		return errorsProcessed(c, fiber.StatusBadRequest, err)
	}
	return processed(c, fiber.StatusCreated)
}

func (s *Server) GoLiveSite(c *fiber.Ctx) error {
	submission, err := s.openSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: err.Error()})
	}
	s.logger.Info("handling live-site submission", "submissionId", submission.SubmissionID)

	req := dto.GoLiveRequest{
		SubmissionID:   submission.SubmissionID,
		RepoName:       submission.Answer("Repository Name"),
		RequestorEmail: submission.Answer("Government E-mail"),
		DomainName:     normalizeDomain(submission.Answer("Domain Name")),
	}
	if err := req.Validate(); err != nil {
		return errorsProcessed(c, fiber.StatusBadRequest, err)
	}

	if _, err := s.commands.GoLive.Execute(c.UserContext(), req); err != nil {
		return errorsProcessed(c, fiber.StatusBadRequest, err)
	}
	return processed(c, fiber.StatusOK)
}

func (s *Server) ManageUsers(c *fiber.Ctx) error {
	submission, err := s.openSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: err.Error()})
	}
	s.logger.Info("handling manage-users submission", "submissionId", submission.SubmissionID)

	instructions := dto.UserInstructions{
		SubmissionID:   submission.SubmissionID,
		RequestorEmail: submission.Answer("Your Government E-mail"),
		TeamName:       submission.Answer("Team Name"),
		Add:            submission.Answers("GitHub users to be added (Username)"),
		Remove:         submission.Answers("GitHub users to be removed (Username)"),
	}
	if err := instructions.Validate(); err != nil {
		return errorsProcessed(c, fiber.StatusBadRequest, err)
	}

	if err := s.commands.ManageUsers.Execute(c.UserContext(), instructions); err != nil {
		return errorsProcessed(c, fiber.StatusBadRequest, err)
	}
	return processed(c, fiber.StatusCreated)
}

func (s *Server) openSubmission(c *fiber.Ctx) (Submission, error) {
	return s.opener.Open(c.Get(signatureHeader), c.Body())
}

func processed(c *fiber.Ctx, status int) error {
	return c.Status(status).JSON(MessageResponse{Message: "Request processed"})
}

func errorsProcessed(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(MessageResponse{
		Message: fmt.Sprintf("Request processed with errors: %v", err),
	})
}
