// Package prefs persists user preferences as YAML in the data directory.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"gopkg.in/yaml.v3"
)

// FileName is the preferences file inside the data directory.
const FileName = "preferences.yaml"

// Preferences is the persisted document.
type Preferences struct {
	Favorites []string `yaml:"favorites,omitempty"`
}

// FavoriteIDs decodes the stored favorites, skipping malformed entries.
func (p Preferences) FavoriteIDs() []unit.ID {
	ids := make([]unit.ID, 0, len(p.Favorites))
	for _, raw := range p.Favorites {
		id, err := unit.ParseID(raw)
		if err != nil {
			logging.Logger().Warn("skipping favorite", "entry", raw, "err", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// WithFavorites returns a copy of p storing ids.
func (p Preferences) WithFavorites(ids []unit.ID) Preferences {
	p.Favorites = make([]string, 0, len(ids))
	for _, id := range ids {
		p.Favorites = append(p.Favorites, id.String())
	}
	return p
}

// Path joins dir and FileName.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads path. A missing file yields empty preferences and no error; a
// corrupt file yields empty preferences and the decode error.
func Load(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Preferences{}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("read preferences: %w", err)
	}
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path, replacing the previous file atomically.
func Save(path string, p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
