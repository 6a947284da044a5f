package cmd

import (
	"github.com/spf13/cobra"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
)

const cliSubmissionID = "cli-submission"

var (
	repoName       string
	requestorEmail string
	agencyName     string
	contact        string
	domainName     string
)

func init() {
	flags := createSiteCmd.Flags()
	flags.StringVarP(&repoName, "repoName", "r", "", "name of the repository to create")
	flags.StringVarP(&requestorEmail, "requestorEmail", "e", "", "e-mail of the requester, defaults to the support address")
	flags.StringVarP(&agencyName, "agencyName", "a", "", "name of the requesting agency")
	flags.StringVarP(&contact, "contact", "c", "", "point of contact for the site")
	flags.StringVarP(&domainName, "domainName", "d", "", "optional custom domain to go live on")
	_ = createSiteCmd.MarkFlagRequired("repoName")
}

var createSiteCmd = &cobra.Command{
	Use:   "create-site",
	Short: "Provision a new site end to end",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := buildDeps(ctx, nil)
		if err != nil {
			return err
		}
		if requestorEmail == "" {
			requestorEmail = d.provision.SupportEmail
		}

		req := dto.SiteCreationRequest{
			SubmissionID:   cliSubmissionID,
			RepoName:       repoName,
			RequestorEmail: requestorEmail,
			AgencyName:     agencyName,
			Contact:        contact,
			DomainName:     domainName,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		_, err = d.handlers.CreateSite.Execute(ctx, req)
		return err
	},
}
