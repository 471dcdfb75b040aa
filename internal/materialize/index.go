package materialize

import (
	"fmt"
	"os"
	"strings"

	"tilegrab/internal/common"
)

// ArtifactIndex records which tiles already exist in one level directory. It
// is built from a single directory listing before any fetch for that level
// is scheduled, so the existence check never races the network work.
type ArtifactIndex struct {
	formats map[string]common.Format
}

// BuildIndex lists dir and records every image whose name carries a known
// tile extension. A directory that does not exist yet yields an empty index.
// When both formats exist for a tile the probe order decides: png wins over
// jpeg.
func BuildIndex(dir string) (*ArtifactIndex, error) {
	idx := &ArtifactIndex{formats: make(map[string]common.Format)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("failed to list level directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, format := range common.ProbeOrder {
			if !strings.HasSuffix(name, format.Ext()) {
				continue
			}
			base := strings.TrimSuffix(name, format.Ext())
			if current, seen := idx.formats[base]; !seen || format == common.PNG && current == common.JPEG {
				idx.formats[base] = format
			}
			break
		}
	}
	return idx, nil
}

// Lookup reports whether base already has a materialized image and, if so,
// its format.
func (idx *ArtifactIndex) Lookup(base string) (common.Format, bool) {
	format, ok := idx.formats[base]
	return format, ok
}

// Len returns the number of indexed tiles.
func (idx *ArtifactIndex) Len() int {
	return len(idx.formats)
}
