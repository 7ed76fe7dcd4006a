// Package cache keeps snappy-compressed local snapshots of fetched graph
// payloads, together with the last settled node positions. Reloading the
// same document set seeds the layout from these positions instead of random
// placement, which keeps the picture stable across sessions.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/model"
)

// Snapshot is one cached load: the raw payload plus the positions the layout
// engine last settled on for it.
type Snapshot struct {
	FileIDs   []string                   `json:"file_ids"`
	Payload   *model.GraphPayload        `json:"payload"`
	Positions map[string]layout.Position `json:"positions,omitempty"`
	SavedAt   time.Time                  `json:"saved_at"`
}

// Store reads and writes snapshots under a cache directory, one file per
// distinct document set.
type Store struct {
	dir    string
	logger logging.Logger
}

// NewStore creates the cache directory if needed.
func NewStore(dir string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir, logger: logger.With(logging.Component("cache"))}, nil
}

// Key derives the cache key for a document set. Order-insensitive: the same
// documents always map to the same snapshot.
func Key(fileIDs []string) string {
	sorted := make([]string, len(fileIDs))
	copy(sorted, fileIDs)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:16])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".snap")
}

// Save writes a snapshot for the given document set, replacing any previous
// one atomically.
func (s *Store) Save(snap *Snapshot) error {
	key := Key(snap.FileIDs)
	snap.SavedAt = time.Now()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		logging.String("key", key),
		logging.Int("bytes_compressed", len(compressed)),
		logging.Int("bytes_uncompressed", len(data)))
	return nil
}

// Load returns the snapshot for a document set, or ok=false when none is
// cached. A corrupt snapshot is treated as a miss and removed.
func (s *Store) Load(fileIDs []string) (*Snapshot, bool) {
	key := Key(fileIDs)
	compressed, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		s.logger.Warn("corrupt snapshot dropped", logging.String("key", key), logging.Error(err))
		os.Remove(s.path(key))
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("corrupt snapshot dropped", logging.String("key", key), logging.Error(err))
		os.Remove(s.path(key))
		return nil, false
	}
	return &snap, true
}

// SeedPayload copies cached positions onto payload entities so the layout
// engine starts from them. Entities unknown to the snapshot are left for
// random placement.
func SeedPayload(payload *model.GraphPayload, positions map[string]layout.Position) {
	if len(positions) == 0 {
		return
	}
	for i := range payload.Entities {
		if pos, ok := positions[payload.Entities[i].ID]; ok {
			x, y := pos.X, pos.Y
			payload.Entities[i].X = &x
			payload.Entities[i].Y = &y
		}
	}
}

// Invalidate removes a cached snapshot.
func (s *Store) Invalidate(fileIDs []string) {
	os.Remove(s.path(Key(fileIDs)))
}
