package db

import "time"

// Site is one row of the live-site inventory swept by the release
// scheduler.
type Site struct {
	RepoName  string    `db:"repo_name"`
	AppID     string    `db:"app_id"`
	Branch    string    `db:"branch"`
	ZoneID    string    `db:"zone_id"`
	Domain    string    `db:"domain"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
