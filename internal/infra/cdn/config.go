package cdn

import "github.com/isomerpages/site-provisioner/pkg/env"

type Config struct {
	APIKey   string
	Endpoint string
	// EdgeSuffix is appended to a zone name to form the hostname custom
	// domains must point at.
	EdgeSuffix string
}

func NewConfig() *Config {
	return &Config{
		APIKey:     env.GetEnv("KEYCDN_API_KEY", ""),
		Endpoint:   env.GetEnv("KEYCDN_API_URL", "https://api.keycdn.com"),
		EdgeSuffix: env.GetEnv("KEYCDN_EDGE_SUFFIX", ".kxcdn.com"),
	}
}
