// Package cdn manages KeyCDN zones, aliases and purges.
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/isomerpages/site-provisioner/internal/application/dto"
	"github.com/isomerpages/site-provisioner/internal/application/errs"
)

type KeyCDN struct {
	cfg    *Config
	client *http.Client
	logger *slog.Logger
}

func NewKeyCDN(cfg *Config, logger *slog.Logger) *KeyCDN {
	return &KeyCDN{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type zoneResponse struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Data        struct {
		Zone struct {
			ID   json.Number `json:"id"`
			Name string      `json:"name"`
		} `json:"zone"`
	} `json:"data"`
}

// CreateZone creates a pull zone whose origin is the build platform's
// default domain.
func (k *KeyCDN) CreateZone(ctx context.Context, name, originURL string) (dto.Zone, error) {
	body := map[string]string{
		"name":      name,
		"type":      "pull",
		"originurl": originURL,
	}
	var resp zoneResponse
	if err := k.do(ctx, http.MethodPost, "/zones.json", body, &resp); err != nil {
		return dto.Zone{}, fmt.Errorf("create zone %v: %w", name, err)
	}
	zone := dto.Zone{
		ID:   resp.Data.Zone.ID.String(),
		Name: resp.Data.Zone.Name,
	}
	k.logger.Info("created cdn zone", "zone", zone.Name, "zoneID", zone.ID)
	return zone, nil
}

// CreateAlias binds a custom domain onto an existing zone.
func (k *KeyCDN) CreateAlias(ctx context.Context, domainName, zoneID string) error {
	body := map[string]string{
		"name":    domainName,
		"zone_id": zoneID,
	}
	var resp zoneResponse
	if err := k.do(ctx, http.MethodPost, "/zonealiases.json", body, &resp); err != nil {
		return errs.AliasError{Domain: domainName, ZoneID: zoneID, Err: err}
	}
	k.logger.Info("aliased domain to zone", "domain", domainName, "zoneID", zoneID)
	return nil
}

// PurgeZone empties the zone's edge cache. Failures are retryable
// because the release gate keeps purging until one succeeds.
func (k *KeyCDN) PurgeZone(ctx context.Context, zoneID string) error {
	var resp zoneResponse
	if err := k.do(ctx, http.MethodGet, "/zones/purge/"+zoneID+".json", nil, &resp); err != nil {
		return errs.RetryableError{Err: fmt.Errorf("purge zone %v: %w", zoneID, err)}
	}
	k.logger.Info("purged cdn cache", "zoneID", zoneID)
	return nil
}

// EdgeHost is the hostname a custom domain must resolve to before it
// can be aliased onto the zone.
func (k *KeyCDN) EdgeHost(zoneName string) string {
	return zoneName + k.cfg.EdgeSuffix
}

func (k *KeyCDN) do(ctx context.Context, method, path string, body any, out *zoneResponse) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, k.cfg.Endpoint+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(k.cfg.APIKey, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	// the gateway answers errors with HTML, so the status code has to
	// be judged before the body is treated as JSON
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if json.Unmarshal(raw, out) == nil && out.Description != "" {
			return fmt.Errorf("keycdn %v %v: %v (%v)", method, path, resp.Status, out.Description)
		}
		return fmt.Errorf("keycdn %v %v: %v", method, path, resp.Status)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("keycdn %v %v: %v", method, path, out.Description)
	}
	return nil
}
