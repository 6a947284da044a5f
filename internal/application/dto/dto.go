package dto

import (
	"log/slog"

	"github.com/isomerpages/site-provisioner/internal/application/errs"
)

// SiteCreationRequest is built once per inbound submission and consumed
// exactly once by the provisioning orchestrator.
type SiteCreationRequest struct {
	SubmissionID   string
	RepoName       string
	RequestorEmail string
	AgencyName     string
	Contact        string
	SiteName       string
	DomainName     string
}

func (r SiteCreationRequest) Validate() error {
	switch {
	case r.RequestorEmail == "":
		return errs.ValidationError{Field: "Government E-mail"}
	case r.AgencyName == "":
		return errs.ValidationError{Field: "Agency"}
	case r.RepoName == "":
		return errs.ValidationError{Field: "Repository Name"}
	case r.Contact == "":
		return errs.ValidationError{Field: "Point of Contact"}
	}
	return nil
}

// ProvisioningResult grows monotonically as pipeline steps complete. A
// field is set only if its producing step finished without error.
type ProvisioningResult struct {
	RepoID             int64
	BuildAppID         string
	BuildAppARN        string
	DefaultBuildDomain string
	CDNZoneID          string
	CDNZoneName        string
	AliasedDomain      string
}

// LogValue reports the partially built result so that operators can
// find resources left behind by an aborted pipeline.
func (r ProvisioningResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("repoID", r.RepoID),
		slog.String("buildAppID", r.BuildAppID),
		slog.String("buildAppARN", r.BuildAppARN),
		slog.String("defaultBuildDomain", r.DefaultBuildDomain),
		slog.String("cdnZoneID", r.CDNZoneID),
		slog.String("cdnZoneName", r.CDNZoneName),
		slog.String("aliasedDomain", r.AliasedDomain),
	)
}

type BuildApp struct {
	ID            string
	ARN           string
	Name          string
	DefaultDomain string
}

type Zone struct {
	ID   string
	Name string
}

// DeployState is the build platform's status of the most recent build
// for a branch.
type DeployState string

const (
	DeployPending  DeployState = "pending"
	DeployBuilding DeployState = "building"
	DeployReady    DeployState = "ready"
	DeployFailed   DeployState = "failed"
)

// OutcomeRecord describes the single mail sent per request. Err chooses
// the error flavour; otherwise SuccessTemplate is rendered with Data.
type OutcomeRecord struct {
	To              []string
	SubmissionID    string
	RepoName        string
	Action          string
	SuccessTemplate string
	Data            map[string]any
	Err             error
}

type GoLiveRequest struct {
	SubmissionID   string
	RepoName       string
	RequestorEmail string
	DomainName     string
}

func (r GoLiveRequest) Validate() error {
	switch {
	case r.RequestorEmail == "":
		return errs.ValidationError{Field: "Government E-mail"}
	case r.RepoName == "":
		return errs.ValidationError{Field: "Repository Name"}
	case r.DomainName == "":
		return errs.ValidationError{Field: "Domain Name"}
	}
	return nil
}

// UserInstructions holds team membership changes from a /users
// submission.
type UserInstructions struct {
	SubmissionID   string
	RequestorEmail string
	TeamName       string
	Add            []string
	Remove         []string
}

func (r UserInstructions) Validate() error {
	switch {
	case r.RequestorEmail == "":
		return errs.ValidationError{Field: "Your Government E-mail"}
	case r.TeamName == "":
		return errs.ValidationError{Field: "Team Name"}
	}
	return nil
}

// ReleaseTarget identifies an already-live site whose release is gated
// on deploy readiness before its cache is purged.
type ReleaseTarget struct {
	RepoName string
	AppID    string
	Branch   string
	ZoneID   string
}
