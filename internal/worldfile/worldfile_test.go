package worldfile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilegrab/internal/common"
	"tilegrab/internal/grid"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	origin := grid.Origin{X: 0, Y: 0}

	err := Write(dir, "R00000001C00000001", common.PNG, 1, 1, 1.0, origin, 256)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "R00000001C00000001.pgw"))
	require.NoError(t, err)
	assert.Equal(t, "1.000000\n0\n0\n-1.000000\n256.000000\n-256.000000\n", string(data))
}

func TestWriteJPEGExtension(t *testing.T) {
	dir := t.TempDir()
	origin := grid.Origin{X: -400, Y: 400}

	err := Write(dir, "R00000000C00000000", common.JPEG, 0, 0, 0.5, origin, 512)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "R00000000C00000000.jgw"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "0.500000", lines[0])
	assert.Equal(t, "0", lines[1])
	assert.Equal(t, "0", lines[2])
	assert.Equal(t, "-0.500000", lines[3])
	assert.Equal(t, "-400.000000", lines[4])
	assert.Equal(t, "400.000000", lines[5])
}

// Re-deriving column and row from the sidecar's upper-left coordinate must
// land on the tile that produced it.
func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	origin := grid.Origin{X: -20037508.342787, Y: 20037508.342787}
	const resolution = 152.87405657041106
	const tileSize = 256

	for _, tile := range []struct{ x, y int }{{0, 0}, {41, 3}, {512, 1024}} {
		err := Write(dir, "tile", common.PNG, tile.x, tile.y, resolution, origin, tileSize)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "tile.pgw"))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 6)

		ulx, err := strconv.ParseFloat(lines[4], 64)
		require.NoError(t, err)
		uly, err := strconv.ParseFloat(lines[5], 64)
		require.NoError(t, err)

		tw := grid.TileWidth(resolution, tileSize)
		// Sample the tile center so boundary rounding cannot flip the index.
		assert.Equal(t, tile.x, grid.ColumnAt(ulx+tw/2, origin, tw))
		assert.Equal(t, tile.y, grid.RowAt(uly-tw/2, origin, tw))
	}
}
