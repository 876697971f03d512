// Package leaderboard persists the all-time global top-10 scores to a
// JSON file, written atomically (temp file + rename) so a crash mid-
// write never corrupts the previous version. I/O failures are logged
// and retried on the next write; the in-memory table stays
// authoritative in the meantime.
package leaderboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

const maxEntries = 10

// Entry is one leaderboard row.
type Entry struct {
	PlayerName string `json:"player_name"`
	BestScore  int32  `json:"best_score"`
	Timestamp  int64  `json:"timestamp"`
}

type document struct {
	Leaderboard []Entry `json:"leaderboard"`
}

// Board is the in-memory, mutex-guarded top-10 table, mirrored to disk
// on every accepted Add.
type Board struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	log     *zap.SugaredLogger
}

// Load reads path if it exists (a missing file is not an error — it
// means an empty leaderboard) and returns a ready-to-use Board.
func Load(path string, log *zap.SugaredLogger) (*Board, error) {
	b := &Board{path: path, log: log}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	b.entries = doc.Leaderboard
	sortDescending(b.entries)
	return b, nil
}

// Snapshot returns a copy of the current top-10, descending by score.
func (b *Board) Snapshot() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Add records a score if it would place in the top 10. It is a no-op
// when the table is already full and score does not beat the current
// lowest entry. Returns true if the score was recorded.
func (b *Board) Add(name string, score int32, timestamp int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) >= maxEntries {
		lowest := b.entries[len(b.entries)-1].BestScore
		if score <= lowest {
			return false
		}
	}

	b.entries = append(b.entries, Entry{PlayerName: name, BestScore: score, Timestamp: timestamp})
	sortDescending(b.entries)
	if len(b.entries) > maxEntries {
		b.entries = b.entries[:maxEntries]
	}

	if err := b.writeLocked(); err != nil && b.log != nil {
		b.log.Warnw("leaderboard write failed, keeping in-memory state", "error", err)
	}
	return true
}

// writeLocked marshals the table and atomically replaces the file on
// disk. Caller must hold b.mu.
func (b *Board) writeLocked() error {
	if b.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(document{Leaderboard: b.entries}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}

func sortDescending(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BestScore > entries[j].BestScore
	})
}
