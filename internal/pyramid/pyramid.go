// Package pyramid models the tile pyramid description published by a cached
// map service and loads it into a validated, immutable descriptor.
package pyramid

import (
	"errors"
	"fmt"
	"sort"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"

	"tilegrab/internal/grid"
)

// ErrSpatialReferenceMismatch reports that the descriptor's components do
// not agree on a coordinate system. It aborts a run before any tile work.
var ErrSpatialReferenceMismatch = errors.New("spatial reference mismatch in pyramid description")

// LOD is one level of detail of the pyramid.
type LOD struct {
	Level      int     `json:"level" validate:"gte=0"`
	Resolution float64 `json:"resolution" validate:"required,gt=0"`
	Scale      float64 `json:"scale" validate:"required,gt=0"`
}

// SpatialReference identifies a coordinate system by well-known id.
type SpatialReference struct {
	WKID       int `json:"wkid" validate:"required"`
	LatestWKID int `json:"latestWkid,omitempty"`
}

type originPoint struct {
	X                float64           `json:"x"`
	Y                float64           `json:"y"`
	SpatialReference *SpatialReference `json:"spatialReference,omitempty"`
}

type rawExtent struct {
	XMin             float64           `json:"xmin"`
	YMin             float64           `json:"ymin"`
	XMax             float64           `json:"xmax"`
	YMax             float64           `json:"ymax"`
	SpatialReference *SpatialReference `json:"spatialReference,omitempty"`
}

type tileInfo struct {
	Rows             int               `json:"rows" default:"256" validate:"min=1"`
	Cols             int               `json:"cols" default:"256" validate:"min=1"`
	Origin           originPoint       `json:"origin"`
	SpatialReference *SpatialReference `json:"spatialReference" validate:"required"`
	LODs             []LOD             `json:"lods" validate:"required,min=1,dive"`
}

// serviceInfo is the subset of a cached map service document the engine
// reads. minLOD/maxLOD, when present, bound the service's native levels;
// anything outside them is downscaled on the fly and not part of the cache.
type serviceInfo struct {
	TileInfo   tileInfo   `json:"tileInfo"`
	FullExtent *rawExtent `json:"fullExtent,omitempty"`
	MinLOD     *int       `json:"minLOD,omitempty"`
	MaxLOD     *int       `json:"maxLOD,omitempty"`
}

// Descriptor is the validated pyramid description. It is read-only for the
// duration of a run.
type Descriptor struct {
	BaseURL  string
	LODs     []LOD // ascending by level, native levels only
	Origin   grid.Origin
	TileRows int
	TileCols int
	WKID     int
}

// TileSize returns the tile edge in pixels. Caches use square tiles; the
// column count is authoritative.
func (d *Descriptor) TileSize() int {
	return d.TileCols
}

// TileURL returns the fetch URL for one tile: {base}/{level}/{row}/{col}.
func (d *Descriptor) TileURL(level, row, col int) string {
	return fmt.Sprintf("%s/%d/%d/%d", d.BaseURL, level, row, col)
}

// Parse builds a Descriptor from a service document. baseURL is the tile
// endpoint the per-tile GETs go against. The two fatal load conditions are a
// document that fails validation and a spatial-reference mismatch between
// the tiling scheme, its origin, and the service's full extent.
func Parse(data []byte, baseURL string) (*Descriptor, error) {
	var info serviceInfo
	if err := defaults.Set(&info); err != nil {
		return nil, err
	}
	if _, err := marshmallow.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse service document: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&info); err != nil {
		return nil, fmt.Errorf("invalid tile pyramid description: %w", err)
	}

	scheme := info.TileInfo.SpatialReference
	if !sameSpatialReference(scheme, info.TileInfo.Origin.SpatialReference) {
		return nil, fmt.Errorf("%w: tiling scheme %d vs origin %d",
			ErrSpatialReferenceMismatch, scheme.WKID, info.TileInfo.Origin.SpatialReference.WKID)
	}
	if info.FullExtent != nil && !sameSpatialReference(scheme, info.FullExtent.SpatialReference) {
		return nil, fmt.Errorf("%w: tiling scheme %d vs full extent %d",
			ErrSpatialReferenceMismatch, scheme.WKID, info.FullExtent.SpatialReference.WKID)
	}

	lods := nativeLODs(info.TileInfo.LODs, info.MinLOD, info.MaxLOD)
	if len(lods) == 0 {
		return nil, fmt.Errorf("invalid tile pyramid description: no native levels remain")
	}
	sort.Slice(lods, func(i, j int) bool { return lods[i].Level < lods[j].Level })

	wkid := scheme.WKID
	if scheme.LatestWKID != 0 {
		wkid = scheme.LatestWKID
	}

	return &Descriptor{
		BaseURL:  baseURL,
		LODs:     lods,
		Origin:   grid.Origin{X: info.TileInfo.Origin.X, Y: info.TileInfo.Origin.Y},
		TileRows: info.TileInfo.Rows,
		TileCols: info.TileInfo.Cols,
		WKID:     wkid,
	}, nil
}

// nativeLODs drops levels outside the service's declared native range. The
// listed LODs can exceed it when a service offers downscaled levels it never
// caches.
func nativeLODs(lods []LOD, minLOD, maxLOD *int) []LOD {
	kept := make([]LOD, 0, len(lods))
	for _, lod := range lods {
		if minLOD != nil && lod.Level < *minLOD {
			continue
		}
		if maxLOD != nil && lod.Level > *maxLOD {
			continue
		}
		kept = append(kept, lod)
	}
	return kept
}

// sameSpatialReference treats an unset reference as agreeing with the
// scheme, and a wkid/latestWkid pair naming the same system as equal.
func sameSpatialReference(scheme, other *SpatialReference) bool {
	if other == nil {
		return true
	}
	if scheme.WKID == other.WKID {
		return true
	}
	if other.LatestWKID != 0 && scheme.WKID == other.LatestWKID {
		return true
	}
	if scheme.LatestWKID != 0 && (scheme.LatestWKID == other.WKID || scheme.LatestWKID == other.LatestWKID) {
		return true
	}
	return false
}
