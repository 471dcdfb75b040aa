// Package materialize performs the idempotent fetch-or-skip for a single
// cache tile and keeps its georeference sidecar in step with the pyramid.
package materialize

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	"tilegrab/internal/cachekey"
	"tilegrab/internal/common"
	"tilegrab/internal/fetch"
	"tilegrab/internal/grid"
	"tilegrab/internal/worldfile"
)

// Outcome classifies what happened to one tile. Materialization never fails
// a run: outcomes exist for accounting, not control flow.
type Outcome int

const (
	// OutcomeDownloaded means the tile was fetched and written.
	OutcomeDownloaded Outcome = iota
	// OutcomeSkipped means the tile was already on disk from a prior run.
	OutcomeSkipped
	// OutcomeMissing means the server had no tile at this coordinate or the
	// request failed in transit.
	OutcomeMissing
	// OutcomeFailed means the tile could not be written locally.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMissing:
		return "missing"
	default:
		return "failed"
	}
}

// Materializer fetches tiles into a level directory, skipping ones already
// present and writing a world file alongside every image.
type Materializer struct {
	client   *fetch.Client
	origin   grid.Origin
	tileSize int
}

// New creates a materializer bound to one pyramid's origin and tile size.
func New(client *fetch.Client, origin grid.Origin, tileSize int) *Materializer {
	return &Materializer{
		client:   client,
		origin:   origin,
		tileSize: tileSize,
	}
}

// Materialize ensures tile (level,x,y) exists under dir with a current world
// file. Existing artifacts are detected through idx and skipped without
// touching the network; the sidecar is rewritten either way so it always
// reflects the current resolution and origin. All failures are logged and
// localized to this one tile.
func (m *Materializer) Materialize(ctx context.Context, idx *ArtifactIndex, coord common.TileCoordinate, tileURL, dir string, resolution float64) (common.Format, Outcome) {
	base := cachekey.TileName(coord.X, coord.Y)

	if format, ok := idx.Lookup(base); ok {
		m.writeWorldFile(dir, base, format, coord, resolution)
		return format, OutcomeSkipped
	}

	body, contentType, err := m.client.FetchTile(ctx, tileURL)
	if err != nil {
		log.Printf("%s/%s: %v", cachekey.LevelDir(coord.Level), base, err)
		return 0, OutcomeMissing
	}
	defer body.Close()

	format := common.FormatFromContentType(contentType)
	path := filepath.Join(dir, base+format.Ext())

	f, err := os.Create(path)
	if err != nil {
		log.Printf("%s/%s: failed to create tile file: %v", cachekey.LevelDir(coord.Level), base, err)
		return format, OutcomeFailed
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		// No partial tile may be left behind; the next run retries it.
		os.Remove(path)
		log.Printf("%s/%s: failed to write tile: %v", cachekey.LevelDir(coord.Level), base, err)
		return format, OutcomeFailed
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		log.Printf("%s/%s: failed to close tile file: %v", cachekey.LevelDir(coord.Level), base, err)
		return format, OutcomeFailed
	}

	m.writeWorldFile(dir, base, format, coord, resolution)
	return format, OutcomeDownloaded
}

func (m *Materializer) writeWorldFile(dir, base string, format common.Format, coord common.TileCoordinate, resolution float64) {
	if err := worldfile.Write(dir, base, format, coord.X, coord.Y, resolution, m.origin, m.tileSize); err != nil {
		log.Printf("%s/%s: %v", cachekey.LevelDir(coord.Level), base, err)
	}
}
