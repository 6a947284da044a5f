package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "site-provisioner",
	Short:         "Provisions, releases and manages Isomer sites",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createSiteCmd)
	rootCmd.AddCommand(releaseCmd)
}

// Init runs the CLI; any command failure exits non-zero.
func Init() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
