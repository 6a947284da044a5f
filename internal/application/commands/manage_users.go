package commands

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/isomerpages/site-provisioner/internal/application/consts"
	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/interfaces"
)

const usersSuccessTemplate = `
User management for {{.RepoName}} has been executed successfully!

Users who are new to Isomer will be sent a GitHub invitation via e-mail.
They are to accept the invitation by following the instructions in the
mail, or visiting https://github.com/isomerpages and following the
instructions there.

The following users have been added:
{{.Added}}

The following users have been removed:
{{.Removed}}

The following users were not found:
{{.NotFound}}
`

// ManageUsers applies team membership changes and mails the requester
// exactly once with what happened, including usernames GitHub did not
// recognise.
type ManageUsers struct {
	teams    interfaces.TeamManager
	notifier interfaces.Notifier
	logger   *slog.Logger
}

func NewManageUsers(teams interfaces.TeamManager, notifier interfaces.Notifier, logger *slog.Logger) *ManageUsers {
	return &ManageUsers{teams: teams, notifier: notifier, logger: logger}
}

func (c *ManageUsers) Execute(ctx context.Context, instructions dto.UserInstructions) error {
	logger := c.logger.With("submissionId", instructions.SubmissionID, "team", instructions.TeamName)
	logger.Info("managing team membership",
		"add", len(instructions.Add), "remove", len(instructions.Remove))

	notFound, err := c.teams.ManageTeam(ctx, instructions)

	added := exclude(instructions.Add, notFound)
	removed := exclude(instructions.Remove, notFound)

	record := dto.OutcomeRecord{
		To:              []string{instructions.RequestorEmail},
		SubmissionID:    instructions.SubmissionID,
		RepoName:        instructions.TeamName,
		Action:          consts.ActionManagingUsers,
		SuccessTemplate: usersSuccessTemplate,
		Data: map[string]any{
			"Added":    orNA(added),
			"Removed":  orNA(removed),
			"NotFound": orNA(notFound),
		},
		Err: err,
	}
	c.notifier.Notify(ctx, record)

	if err != nil {
		logger.Error("team management failed", "err", err)
	}
	return err
}

func exclude(users, skip []string) []string {
	var kept []string
	for _, u := range users {
		if !slices.Contains(skip, u) {
			kept = append(kept, u)
		}
	}
	return kept
}

func orNA(users []string) string {
	if len(users) == 0 {
		return "N/A"
	}
	return strings.Join(users, "\n")
}
