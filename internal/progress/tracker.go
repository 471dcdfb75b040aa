// Package progress aggregates completion counts across the level-by-tile
// iteration space. A single tracker owns the counters; concurrent tile
// workers report through it and an injected sink renders the snapshots.
package progress

import (
	"sync"

	"tilegrab/internal/materialize"
)

// Snapshot is one point-in-time view of a run.
type Snapshot struct {
	TotalTiles int
	DoneTiles  int

	Level      int
	LevelTotal int
	LevelDone  int

	Downloaded int
	Skipped    int
	Missing    int
	Failed     int
}

// Fraction returns overall completion in [0,1].
func (s Snapshot) Fraction() float64 {
	if s.TotalTiles == 0 {
		return 1
	}
	return float64(s.DoneTiles) / float64(s.TotalTiles)
}

// Sink receives a snapshot after every settled tile.
type Sink func(Snapshot)

// Tracker counts settled tiles for a whole run. The total is fixed at
// construction, before any fetch begins. The sink is invoked under the
// tracker's lock, so snapshots arrive serialized and monotonic.
type Tracker struct {
	mu   sync.Mutex
	snap Snapshot
	sink Sink
}

// NewTracker creates a tracker for a run of totalTiles tiles.
func NewTracker(totalTiles int, sink Sink) *Tracker {
	return &Tracker{
		snap: Snapshot{TotalTiles: totalTiles},
		sink: sink,
	}
}

// StartLevel resets the per-level counters for the given level.
func (t *Tracker) StartLevel(level, levelTotal int) {
	t.mu.Lock()
	t.snap.Level = level
	t.snap.LevelTotal = levelTotal
	t.snap.LevelDone = 0
	if t.sink != nil {
		t.sink(t.snap)
	}
	t.mu.Unlock()
}

// TileDone records one settled tile and pushes a snapshot to the sink.
func (t *Tracker) TileDone(outcome materialize.Outcome) {
	t.mu.Lock()
	t.snap.DoneTiles++
	t.snap.LevelDone++
	switch outcome {
	case materialize.OutcomeDownloaded:
		t.snap.Downloaded++
	case materialize.OutcomeSkipped:
		t.snap.Skipped++
	case materialize.OutcomeMissing:
		t.snap.Missing++
	case materialize.OutcomeFailed:
		t.snap.Failed++
	}
	if t.sink != nil {
		t.sink(t.snap)
	}
	t.mu.Unlock()
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}
