package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SessionCache remembers which wallet was connected last so the next start
// can reconnect without user action. It stores names only, never keys.
//
//	macOS:   ~/Library/Caches/minedash/session.json
//	Linux:   ~/.cache/minedash/session.json
//	Windows: %LocalAppData%\minedash\session.json
type SessionCache struct {
	path string
}

type sessionEntry struct {
	Wallet      string `json:"wallet"`
	ConnectedAt string `json:"connected_at"`
}

// NewSessionCache stores the cache at path. An empty path selects the
// per-user cache directory.
func NewSessionCache(path string) *SessionCache {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "minedash", "session.json")
	}
	return &SessionCache{path: path}
}

// Last returns the remembered wallet name, or ("", false).
func (c *SessionCache) Last() (string, bool) {
	if c == nil {
		return "", false
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", false
	}
	var e sessionEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Wallet == "" {
		return "", false
	}
	return e.Wallet, true
}

// Remember records name as the connected wallet.
func (c *SessionCache) Remember(name string) error {
	if c == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(sessionEntry{
		Wallet:      name,
		ConnectedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

// Forget removes the cache file.
func (c *SessionCache) Forget() error {
	if c == nil {
		return nil
	}
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
