// Package downloads drives cache materialization: it walks the pyramid's
// levels in order, fans tile work out through a bounded pool, and emits the
// per-level conversion script once a level's tiles have settled.
package downloads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/go-spatial/geom"

	"tilegrab/internal/cachekey"
	"tilegrab/internal/common"
	"tilegrab/internal/grid"
	"tilegrab/internal/materialize"
	"tilegrab/internal/progress"
	"tilegrab/internal/pyramid"
	"tilegrab/internal/script"
)

const (
	// PoolSize bounds in-flight materializations across the whole run, not
	// per level. The bound is fixed and independent of input size.
	PoolSize = 10

	// LayersDir is the cache root created under the destination directory.
	LayersDir = "_alllayers"
)

// Downloader materializes a tile cache for one pyramid.
type Downloader struct {
	materializer       *materialize.Materializer
	pyramid            *pyramid.Descriptor
	destRoot           string
	progressSink       progress.Sink
	logCallback        func(string)
	trackEventCallback func(string, map[string]interface{})
	sem                *semaphore.Weighted
}

// NewDownloader creates a downloader with injected dependencies. The
// callbacks may be nil.
func NewDownloader(
	materializer *materialize.Materializer,
	desc *pyramid.Descriptor,
	destRoot string,
	progressSink progress.Sink,
	logCallback func(string),
	trackEventCallback func(string, map[string]interface{}),
) *Downloader {
	return &Downloader{
		materializer:       materializer,
		pyramid:            desc,
		destRoot:           destRoot,
		progressSink:       progressSink,
		logCallback:        logCallback,
		trackEventCallback: trackEventCallback,
		sem:                semaphore.NewWeighted(PoolSize),
	}
}

// emitLog emits a log message if a callback is set
func (d *Downloader) emitLog(message string) {
	if d.logCallback != nil {
		d.logCallback(message)
	}
}

// trackEvent tracks an analytics event if a callback is set
func (d *Downloader) trackEvent(event string, properties map[string]interface{}) {
	if d.trackEventCallback != nil {
		d.trackEventCallback(event, properties)
	}
}

// Run materializes every tile of every native level covering ext under the
// destination root. Levels are processed strictly sequentially; a level's
// conversion script is emitted only after all of its tiles have settled.
// Per-tile failures are logged and isolated; only an unusable destination
// stops the run.
func (d *Downloader) Run(ctx context.Context, ext geom.Extent) error {
	layersRoot := filepath.Join(d.destRoot, LayersDir)
	if err := ensureWritable(layersRoot); err != nil {
		return fmt.Errorf("destination is not writable: %w", err)
	}

	// The run total is fixed before any fetch begins.
	lods := d.pyramid.LODs
	ranges := make([]grid.TileRange, len(lods))
	total := 0
	for i, lod := range lods {
		ranges[i] = grid.RangeForExtent(ext, lod.Resolution, d.pyramid.Origin, d.pyramid.TileSize())
		total += ranges[i].Count()
	}

	tracker := progress.NewTracker(total, d.progressSink)
	d.emitLog(fmt.Sprintf("Materializing %d tiles across %d levels with %d workers", total, len(lods), PoolSize))
	d.trackEvent("run_started", map[string]interface{}{
		"levels": len(lods),
		"tiles":  total,
	})

	for i, lod := range lods {
		r := ranges[i]
		levelDir := filepath.Join(layersRoot, cachekey.LevelDir(lod.Level))
		if err := os.MkdirAll(levelDir, 0755); err != nil {
			return fmt.Errorf("failed to create level directory: %w", err)
		}

		idx, err := materialize.BuildIndex(levelDir)
		if err != nil {
			return err
		}

		tracker.StartLevel(lod.Level, r.Count())
		d.emitLog(fmt.Sprintf("Level %d: %d x %d tiles (columns %d..%d, rows %d..%d), %d already present",
			lod.Level, r.Cols(), r.Rows(), r.MinX, r.MaxX, r.MinY, r.MaxY, idx.Len()))

		var wg sync.WaitGroup
		for y := r.MinY; y <= r.MaxY; y++ {
			for x := r.MinX; x <= r.MaxX; x++ {
				if err := d.sem.Acquire(ctx, 1); err != nil {
					wg.Wait()
					return err
				}
				wg.Add(1)
				go func(coord common.TileCoordinate) {
					defer wg.Done()
					defer d.sem.Release(1)
					tileURL := d.pyramid.TileURL(coord.Level, coord.Y, coord.X)
					_, outcome := d.materializer.Materialize(ctx, idx, coord, tileURL, levelDir, lod.Resolution)
					tracker.TileDone(outcome)
				}(common.TileCoordinate{Level: lod.Level, X: x, Y: y})
			}
		}
		wg.Wait()

		if err := script.Emit(levelDir, d.pyramid.WKID); err != nil {
			d.emitLog(fmt.Sprintf("Level %d: %v", lod.Level, err))
		}
	}

	snap := tracker.Snapshot()
	d.emitLog(fmt.Sprintf("Run complete: %d downloaded, %d skipped, %d missing, %d failed",
		snap.Downloaded, snap.Skipped, snap.Missing, snap.Failed))
	d.trackEvent("download_complete", map[string]interface{}{
		"tiles":      snap.TotalTiles,
		"downloaded": snap.Downloaded,
		"skipped":    snap.Skipped,
		"missing":    snap.Missing,
		"failed":     snap.Failed,
	})
	return nil
}

// ensureWritable proves the directory-write capability up front so a run
// aborts before any network work when the destination is unusable.
func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".write-probe")
	f, err := os.Create(probe)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(probe)
}
