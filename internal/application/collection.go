package application

import "github.com/isomerpages/site-provisioner/internal/application/commands"

// Handlers collects the application commands for wiring into the
// presentation layer.
type Handlers struct {
	CreateSite    *commands.CreateSite
	GoLive        *commands.GoLive
	ManageUsers   *commands.ManageUsers
	ReleaseSite   *commands.ReleaseSite
	NotifyOutcome *commands.NotifyOutcome
}
