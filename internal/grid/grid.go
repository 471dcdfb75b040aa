// Package grid holds the pure geometry of a tile pyramid level: mapping
// ground coordinates to tile indices and tile indices back to ground
// coordinates. Columns grow eastward from the tiling origin, rows grow
// southward, mirroring the vertical axis flip of the ground coordinate
// system.
package grid

import (
	"math"

	"github.com/go-spatial/geom"
)

// Origin is the pyramid's tiling origin in ground units. It sits at the
// top-left corner of tile (0,0) on every level.
type Origin struct {
	X float64
	Y float64
}

// TileRange is an inclusive tile-index rectangle for one level. Degenerate
// single-tile ranges are valid.
type TileRange struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Cols returns the number of columns in the range.
func (r TileRange) Cols() int { return r.MaxX - r.MinX + 1 }

// Rows returns the number of rows in the range.
func (r TileRange) Rows() int { return r.MaxY - r.MinY + 1 }

// Count returns the number of tiles in the range.
func (r TileRange) Count() int { return r.Cols() * r.Rows() }

// TileWidth returns the ground width of one square tile at the given
// resolution (ground units per pixel).
func TileWidth(resolution float64, tileSize int) float64 {
	return resolution * float64(tileSize)
}

// ColumnAt returns the column index of the tile containing ground x.
func ColumnAt(x float64, origin Origin, tileWidth float64) int {
	return int(math.Floor((x - origin.X) / tileWidth))
}

// RowAt returns the row index of the tile containing ground y. Rows increase
// southward, away from the origin.
func RowAt(y float64, origin Origin, tileWidth float64) int {
	return int(math.Floor((origin.Y - y) / tileWidth))
}

// RangeForExtent computes the inclusive rectangle of tiles whose footprints
// cover ext at the given resolution. Indices are not clamped against the
// server's actual coverage: a tile outside it simply fails per-tile at fetch
// time, and negative indices are permitted.
func RangeForExtent(ext geom.Extent, resolution float64, origin Origin, tileSize int) TileRange {
	tw := TileWidth(resolution, tileSize)
	return TileRange{
		MinX: ColumnAt(ext.MinX(), origin, tw),
		MaxX: ColumnAt(ext.MaxX(), origin, tw),
		MinY: RowAt(ext.MaxY(), origin, tw),
		MaxY: RowAt(ext.MinY(), origin, tw),
	}
}

// TileUpperLeft returns the ground coordinate of the top-left corner of tile
// (x,y) at the given resolution.
func TileUpperLeft(x, y int, resolution float64, origin Origin, tileSize int) (float64, float64) {
	tw := TileWidth(resolution, tileSize)
	return origin.X + float64(x)*tw, origin.Y - float64(y)*tw
}
