package pyramid

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
)

// ExtentFromGeoJSON derives the area-of-interest extent from a GeoJSON
// geometry or feature read from path. The geometry's bounding box, in the
// pyramid's coordinate system, is what feeds the range mapper.
func ExtentFromGeoJSON(path string) (*geom.Extent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read area of interest: %w", err)
	}

	var g geojson.Geometry
	if err := json.Unmarshal(data, &g); err == nil && g.Geometry != nil {
		return geom.NewExtentFromGeometry(g.Geometry)
	}

	var f geojson.Feature
	if err := json.Unmarshal(data, &f); err == nil && f.Geometry.Geometry != nil {
		return geom.NewExtentFromGeometry(f.Geometry.Geometry)
	}

	return nil, fmt.Errorf("%s is not a GeoJSON geometry or feature", path)
}

// ExtentFromBBox parses a literal [xmin,ymin,xmax,ymax] JSON array.
func ExtentFromBBox(s string) (*geom.Extent, error) {
	var vals []float64
	if err := json.Unmarshal([]byte(s), &vals); err != nil {
		return nil, fmt.Errorf("invalid extent %q: %w", s, err)
	}
	if len(vals) != 4 {
		return nil, fmt.Errorf("invalid extent %q: want [xmin,ymin,xmax,ymax]", s)
	}
	if vals[0] > vals[2] || vals[1] > vals[3] {
		return nil, fmt.Errorf("invalid extent %q: min exceeds max", s)
	}
	return &geom.Extent{vals[0], vals[1], vals[2], vals[3]}, nil
}
