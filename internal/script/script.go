// Package script emits the per-level mosaic build script. The script is a
// thin hand-off to GDAL; running it is the user's step, not the engine's.
package script

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScriptName is the file name emitted into every completed level directory.
const ScriptName = "convert.sh"

const template = `#!/bin/sh
# Build a single georeferenced raster from the tiles in this directory.
# Requires GDAL (gdalbuildvrt, gdal_translate).
set -e
cd "$(dirname "$0")"
ls *.png *.jpeg 2>/dev/null > tiles.txt
gdalbuildvrt -addalpha -input_file_list tiles.txt mosaic.vrt
gdal_translate -of GTiff -a_srs EPSG:%d mosaic.vrt mosaic.tif
rm -f mosaic.vrt tiles.txt
`

// Emit writes an executable convert.sh into levelDir, parameterized only by
// the coordinate system identifier the mosaic should be tagged with.
func Emit(levelDir string, wkid int) error {
	path := filepath.Join(levelDir, ScriptName)
	if err := os.WriteFile(path, []byte(fmt.Sprintf(template, wkid)), 0755); err != nil {
		return fmt.Errorf("failed to write conversion script: %w", err)
	}
	return nil
}
