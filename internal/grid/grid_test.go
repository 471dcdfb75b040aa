package grid

import (
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
)

func TestRangeForExtent(t *testing.T) {
	origin := Origin{X: 0, Y: 0}

	tests := []struct {
		name       string
		extent     geom.Extent
		resolution float64
		tileSize   int
		want       TileRange
	}{
		{
			name:       "three by three around origin",
			extent:     geom.Extent{100, 100, 600, 600},
			resolution: 1.0,
			tileSize:   256,
			// tileWidth=256; floor(100/256)=0, floor(600/256)=2.
			// YMax=600 is north of the origin, so rows run from
			// floor((0-600)/256)=-3 down to floor((0-100)/256)=-1.
			want: TileRange{MinX: 0, MaxX: 2, MinY: -3, MaxY: -1},
		},
		{
			name:       "south of origin",
			extent:     geom.Extent{100, -600, 600, -100},
			resolution: 1.0,
			tileSize:   256,
			want:       TileRange{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2},
		},
		{
			name:       "degenerate point extent",
			extent:     geom.Extent{300, -300, 300, -300},
			resolution: 1.0,
			tileSize:   256,
			want:       TileRange{MinX: 1, MaxX: 1, MinY: 1, MaxY: 1},
		},
		{
			name:       "west of origin yields negative columns",
			extent:     geom.Extent{-700, -300, -100, -100},
			resolution: 1.0,
			tileSize:   256,
			want:       TileRange{MinX: -3, MaxX: -1, MinY: 0, MaxY: 1},
		},
		{
			name:       "coarser resolution shrinks the range",
			extent:     geom.Extent{100, -600, 600, -100},
			resolution: 2.0,
			tileSize:   256,
			want:       TileRange{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangeForExtent(tt.extent, tt.resolution, origin, tt.tileSize)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.MinX, got.MaxX)
			assert.LessOrEqual(t, got.MinY, got.MaxY)
		})
	}
}

func TestRangeForExtentCoversIntersectingTiles(t *testing.T) {
	origin := Origin{X: 0, Y: 0}
	ext := geom.Extent{100, -600, 600, -100}
	r := RangeForExtent(ext, 1.0, origin, 256)
	tw := TileWidth(1.0, 256)

	// Every tile in the range must intersect the extent, every tile just
	// outside it must not.
	for y := r.MinY - 1; y <= r.MaxY+1; y++ {
		for x := r.MinX - 1; x <= r.MaxX+1; x++ {
			ulx, uly := TileUpperLeft(x, y, 1.0, origin, 256)
			intersects := ulx < ext.MaxX() && ulx+tw > ext.MinX() &&
				uly > ext.MinY() && uly-tw < ext.MaxY()
			inRange := x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
			if intersects {
				assert.True(t, inRange, "tile (%d,%d) intersects but is outside the range", x, y)
			}
		}
	}
}

func TestTileRangeCounts(t *testing.T) {
	r := TileRange{MinX: 0, MaxX: 2, MinY: 1, MaxY: 2}
	assert.Equal(t, 3, r.Cols())
	assert.Equal(t, 2, r.Rows())
	assert.Equal(t, 6, r.Count())

	single := TileRange{MinX: 4, MaxX: 4, MinY: 4, MaxY: 4}
	assert.Equal(t, 1, single.Count())
}

func TestTileUpperLeft(t *testing.T) {
	origin := Origin{X: 0, Y: 0}
	ulx, uly := TileUpperLeft(1, 1, 1.0, origin, 256)
	assert.Equal(t, 256.0, ulx)
	assert.Equal(t, -256.0, uly)

	origin = Origin{X: -20037508.342787, Y: 20037508.342787}
	ulx, uly = TileUpperLeft(0, 0, 156543.033928, origin, 256)
	assert.Equal(t, origin.X, ulx)
	assert.Equal(t, origin.Y, uly)
}

func TestColumnRowAt(t *testing.T) {
	origin := Origin{X: 0, Y: 0}
	tw := TileWidth(1.0, 256)

	assert.Equal(t, 0, ColumnAt(0, origin, tw))
	assert.Equal(t, 0, ColumnAt(255.9, origin, tw))
	assert.Equal(t, 1, ColumnAt(256, origin, tw))
	assert.Equal(t, -1, ColumnAt(-0.1, origin, tw))

	assert.Equal(t, 0, RowAt(-0.1, origin, tw))
	assert.Equal(t, 1, RowAt(-256, origin, tw))
	assert.Equal(t, -1, RowAt(0.1, origin, tw))
}
