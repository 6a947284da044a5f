package repository

import "github.com/isomerpages/site-provisioner/pkg/env"

type Config struct {
	AccessToken string
	Org         string
	// AdminTeam keeps admin permission on every site repository.
	AdminTeam     string
	RedirectsRepo string
	// BaseRepo is the template every new site starts from. A bare name
	// is resolved inside Org; a path or URL is used as is.
	BaseRepo string
}

func NewConfig() *Config {
	return &Config{
		AccessToken:   env.GetEnv("GITHUB_ACCESS_TOKEN", ""),
		Org:           env.GetEnv("GITHUB_ORG", "isomerpages"),
		AdminTeam:     env.GetEnv("GITHUB_ADMIN_TEAM", "core"),
		RedirectsRepo: env.GetEnv("GITHUB_REDIRECTS_REPO", "isomer-redirects"),
		BaseRepo:      env.GetEnv("GITHUB_BASE_REPO", "isomerpages-base-site"),
	}
}
