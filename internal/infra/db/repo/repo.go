package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/infra/db"
)

type SiteRepo struct {
	pool *pgxpool.Pool
}

func NewSiteRepo(pool *pgxpool.Pool) *SiteRepo {
	return &SiteRepo{pool: pool}
}

func (r *SiteRepo) InsertSite(ctx context.Context, site db.Site) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO provisioner.sites(repo_name, app_id, branch, zone_id, domain, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (repo_name) DO UPDATE
		 SET app_id = EXCLUDED.app_id, branch = EXCLUDED.branch, zone_id = EXCLUDED.zone_id,
		     domain = EXCLUDED.domain, updated_at = EXCLUDED.updated_at`,
		site.RepoName, site.AppID, site.Branch, site.ZoneID, site.Domain, site.CreatedAt, site.UpdatedAt,
	)
	return err
}

func (r *SiteRepo) ListSites(ctx context.Context) ([]db.Site, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT repo_name, app_id, branch, zone_id, domain, created_at, updated_at
		 FROM provisioner.sites ORDER BY repo_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []db.Site
	for rows.Next() {
		var site db.Site
		if err := rows.Scan(&site.RepoName, &site.AppID, &site.Branch, &site.ZoneID,
			&site.Domain, &site.CreatedAt, &site.UpdatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// RecordSite adds a site that has just gone live to the inventory.
func (r *SiteRepo) RecordSite(ctx context.Context, target dto.ReleaseTarget, domain string) error {
	now := time.Now()
	return r.InsertSite(ctx, db.Site{
		RepoName:  target.RepoName,
		AppID:     target.AppID,
		Branch:    target.Branch,
		ZoneID:    target.ZoneID,
		Domain:    domain,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
