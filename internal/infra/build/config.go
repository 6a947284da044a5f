package build

import "github.com/isomerpages/site-provisioner/pkg/env"

type Config struct {
	// GithubToken lets Amplify read from the just-created repository.
	GithubToken string
	Org         string
	Framework   string
}

func NewConfig() *Config {
	return &Config{
		GithubToken: env.GetEnv("GITHUB_ACCESS_TOKEN", ""),
		Org:         env.GetEnv("GITHUB_ORG", "isomerpages"),
		Framework:   env.GetEnv("AMPLIFY_FRAMEWORK", "Jekyll"),
	}
}
