// Package statefile persists the registry ledger as a JSON snapshot in
// the config directory.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tokenforge/permit721/internal/registry"
)

// Store reads and writes ledger snapshots at a fixed path.
type Store struct {
	path string
}

// NewStore creates a snapshot store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted snapshot. A missing file returns (nil, nil):
// the caller starts with an empty ledger.
func (s *Store) Load() (*registry.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	var snap registry.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot.
func (s *Store) Save(snap *registry.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
