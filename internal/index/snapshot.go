package index

import (
	"encoding/json"
	"os"

	"implidx/pkg/types"
)

// snapshotFile is the on-disk layout of an index snapshot.
type snapshotFile struct {
	Components types.ImplementorMap `json:"components"`
}

func (ix *Index) loadSnapshot() {
	if ix.snapshotPath == "" {
		return
	}
	f, err := os.Open(ix.snapshotPath)
	if err != nil {
		return
	}
	defer f.Close()
	var snap snapshotFile
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		ix.log.Warn().Err(err).Str("path", ix.snapshotPath).Msg("snapshot decode failed, starting empty")
		return
	}
	ix.mu.Lock()
	for name, entries := range snap.Components {
		ix.components[name] = entries
	}
	ix.mu.Unlock()
	ix.log.Info().Int("components", len(snap.Components)).Str("path", ix.snapshotPath).Msg("snapshot restored")
}

func (ix *Index) saveSnapshot() {
	if ix.snapshotPath == "" {
		return
	}
	// Snapshot under lock
	ix.mu.RLock()
	snap := snapshotFile{Components: make(types.ImplementorMap, len(ix.components))}
	for name, entries := range ix.components {
		cp := make([]types.ImplementorEntry, len(entries))
		copy(cp, entries)
		snap.Components[name] = cp
	}
	ix.mu.RUnlock()
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(ix.snapshotPath, b, 0o644); err != nil {
		ix.log.Warn().Err(err).Str("path", ix.snapshotPath).Msg("snapshot write failed")
	}
}
