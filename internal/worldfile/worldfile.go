// Package worldfile writes the six-line affine sidecar that georeferences a
// single cache tile: pixel sizes, rotations, and the ground coordinate of
// the upper-left pixel.
package worldfile

import (
	"fmt"
	"os"
	"path/filepath"

	"tilegrab/internal/common"
	"tilegrab/internal/grid"
)

// Write puts the world file for tile (x,y) next to its image under dir,
// named base plus the extension paired to format. The y pixel size is
// negative: tiles are stored north-up.
func Write(dir, base string, format common.Format, x, y int, resolution float64, origin grid.Origin, tileSize int) error {
	ulx, uly := grid.TileUpperLeft(x, y, resolution, origin, tileSize)
	content := fmt.Sprintf("%.6f\n0\n0\n%.6f\n%.6f\n%.6f\n", resolution, -resolution, ulx, uly)
	path := filepath.Join(dir, base+format.WorldExt())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write world file: %w", err)
	}
	return nil
}
