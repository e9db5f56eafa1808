// Package sync keeps the dashboard's view of writes and deployments current:
// Controller tracks submitted transactions until they confirm, and
// ManifestSyncer refreshes deployment profiles from a remote manifest.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/Mohsinsiddi/minedash/internal/config"
	"github.com/Mohsinsiddi/minedash/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrNoSource is returned by Run when no manifest URL is configured.
var ErrNoSource = errors.New("no sync source configured, run: minedash deployments set-source <url>")

// Manifest is the structure of a remote deployments.json manifest, keyed by
// deployment name.
type Manifest struct {
	Deployments map[string]config.Deployment `json:"deployments"`
}

// ManifestSyncer fetches a manifest and merges it into deployments.yaml.
type ManifestSyncer struct {
	cfg    *config.Config
	client *http.Client
	log    *zap.Logger
}

// NewManifestSyncer creates a syncer for cfg's config directory.
func NewManifestSyncer(cfg *config.Config, log *zap.Logger) *ManifestSyncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ManifestSyncer{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// Run fetches the manifest from the configured source and upserts every
// valid entry. It returns the names that were written.
func (s *ManifestSyncer) Run(ctx context.Context) ([]string, error) {
	df, err := s.cfg.LoadDeployments()
	if err != nil {
		return nil, err
	}
	if df.Source == "" {
		return nil, ErrNoSource
	}

	m, err := s.fetchManifest(ctx, df.Source)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}

	names := make([]string, 0, len(m.Deployments))
	for name := range m.Deployments {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		d := m.Deployments[name]
		d.Name = name
		if err := validateDeployment(d); err != nil {
			s.log.Warn("skipping deployment", zap.String("name", name), zap.Error(err))
			continue
		}
		df.Upsert(d)
		written = append(written, name)
	}

	df.LastSynced = time.Now().UTC().Format(time.RFC3339)
	if err := s.cfg.SaveDeployments(df); err != nil {
		return nil, fmt.Errorf("saving deployments: %w", err)
	}
	s.log.Info("deployments synced", zap.String("source", df.Source), zap.Strings("names", written))
	return written, nil
}

// SetSource sets the remote manifest URL.
func (s *ManifestSyncer) SetSource(url string) error {
	df, err := s.cfg.LoadDeployments()
	if err != nil {
		return err
	}
	df.Source = url
	return s.cfg.SaveDeployments(df)
}

// Watch runs Run on a ticker until ctx is cancelled. Errors after the first
// run are logged and do not stop the loop.
func (s *ManifestSyncer) Watch(ctx context.Context, interval time.Duration) error {
	if _, err := s.Run(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.log.Warn("deployment sync failed", zap.Error(err))
			}
		}
	}
}

func validateDeployment(d config.Deployment) error {
	if !common.IsHexAddress(d.Contract) {
		return fmt.Errorf("invalid contract address %q", d.Contract)
	}
	if d.Token != "" && !common.IsHexAddress(d.Token) {
		return fmt.Errorf("invalid token address %q", d.Token)
	}
	if d.ChainID <= 0 {
		return fmt.Errorf("missing chain_id")
	}
	if d.Layout != "" {
		if _, err := contract.LayoutFor(d.Layout); err != nil {
			return err
		}
	}
	return nil
}

func (s *ManifestSyncer) fetchManifest(ctx context.Context, url string) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
