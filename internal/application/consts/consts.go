package consts

// Branch conventions shared by the repository and build platform:
// staging is pushed first so that it becomes the default branch.
const (
	StagingBranch    = "staging"
	ProductionBranch = "master"
)

// Step names used to tag pipeline errors and metrics.
type Step string

const (
	StepRepository Step = "repository"
	StepBuildApp   Step = "build-app"
	StepEdgeZone   Step = "edge-zone"
	StepURLPatch   Step = "url-patch"
)

// Action verbs named in outcome mail subjects.
const (
	ActionCreating      = "creating"
	ActionManagingUsers = "managing users for"
)
