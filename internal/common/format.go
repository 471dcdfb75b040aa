package common

import "strings"

// Format is the closed set of raster kinds a tile can be persisted as.
type Format int

const (
	PNG Format = iota
	JPEG
)

// ProbeOrder is the fixed order in which existing artifacts are looked for
// on disk.
var ProbeOrder = [...]Format{PNG, JPEG}

// Ext returns the image file extension for the format.
func (f Format) Ext() string {
	if f == PNG {
		return ".png"
	}
	return ".jpeg"
}

// WorldExt returns the world-file extension paired to the format.
func (f Format) WorldExt() string {
	if f == PNG {
		return ".pgw"
	}
	return ".jgw"
}

// String returns the short format name.
func (f Format) String() string {
	if f == PNG {
		return "png"
	}
	return "jpeg"
}

// FormatFromContentType maps a response's declared content type onto the
// closed format set. Anything that is not recognizably PNG, including an
// absent content type, falls back to JPEG.
func FormatFromContentType(contentType string) Format {
	if strings.Contains(strings.ToLower(contentType), "png") {
		return PNG
	}
	return JPEG
}
