package cmd

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/infra/db"
	"github.com/isomerpages/site-provisioner/internal/infra/db/repo"
)

var releaseSiteName string

func init() {
	releaseCmd.Flags().StringVarP(&releaseSiteName, "site", "s", "", "repository name of the live site to release")
	_ = releaseCmd.MarkFlagRequired("site")
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Rebuild a live site and purge its edge cache once ready",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbConfig := db.NewConfig()
		pool, err := pgxpool.New(ctx, dbConfig.GetDSN())
		if err != nil {
			return fmt.Errorf("creating pool: %w", err)
		}
		defer pool.Close()
		sites := repo.NewSiteRepo(pool)

		d, err := buildDeps(ctx, sites)
		if err != nil {
			return err
		}

		known, err := sites.ListSites(ctx)
		if err != nil {
			return err
		}
		for _, site := range known {
			if site.RepoName != releaseSiteName {
				continue
			}
			target := dto.ReleaseTarget{
				RepoName: site.RepoName,
				AppID:    site.AppID,
				Branch:   site.Branch,
				ZoneID:   site.ZoneID,
			}
			return d.handlers.ReleaseSite.Execute(ctx, target)
		}
		return fmt.Errorf("site %v is not in the live site inventory", releaseSiteName)
	},
}
