package config

import (
	"os"
	"path/filepath"

	"github.com/isomerpages/site-provisioner/pkg/env"
)

// ProvisionConfig holds settings shared across the provisioning
// pipeline. Vendor-specific settings live with their infra packages.
type ProvisionConfig struct {
	// Environment selects real side channels; anything other than
	// "production" makes the mail transport log-only.
	Environment  string
	SupportEmail string
	// WorkDir is where prepared site working trees are found, one
	// directory per repository name.
	WorkDir string
}

func NewProvisionConfig() *ProvisionConfig {
	return &ProvisionConfig{
		Environment:  env.GetEnv("ENVIRONMENT", "development"),
		SupportEmail: env.GetEnv("SUPPORT_EMAIL", "support@isomer.gov.sg"),
		WorkDir:      env.GetEnv("WORK_DIR", filepath.Join(os.TempDir(), "site-provisioner")),
	}
}

func (c *ProvisionConfig) IsProduction() bool {
	return c.Environment == "production"
}
