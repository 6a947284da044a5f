package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetSiteURLsReplacesExistingKeys(t *testing.T) {
	dir := t.TempDir()
	config := "title: Agency Site\nstaging: https://old-staging\nprod: https://old-prod\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(config), 0o644))

	err := setSiteURLs(dir, "https://staging.app-1.amplifyapp.com", "https://master.app-1.amplifyapp.com")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, configFile))
	require.NoError(t, err)
	require.Equal(t,
		"title: Agency Site\n"+
			"staging: https://staging.app-1.amplifyapp.com\n"+
			"prod: https://master.app-1.amplifyapp.com\n",
		string(raw))
}

func TestSetSiteURLsAppendsMissingKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("title: Agency Site\n"), 0o644))

	err := setSiteURLs(dir, "https://staging.app-1.amplifyapp.com", "https://master.app-1.amplifyapp.com")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, configFile))
	require.NoError(t, err)
	require.Contains(t, string(raw), "staging: https://staging.app-1.amplifyapp.com")
	require.Contains(t, string(raw), "prod: https://master.app-1.amplifyapp.com")
}

func TestSetSiteURLsCreatesConfigWhenAbsent(t *testing.T) {
	dir := t.TempDir()

	err := setSiteURLs(dir, "https://staging.app-1.amplifyapp.com", "https://master.app-1.amplifyapp.com")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, configFile))
	require.NoError(t, err)
}
