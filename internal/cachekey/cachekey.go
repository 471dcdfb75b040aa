// Package cachekey implements the exploded-cache naming convention: level
// directories "L00".."Lnn" holding tile files named "R{row}C{col}" with row
// and column rendered as eight uppercase hexadecimal digits.
//
// The eight-digit fields cover indices up to 2^32-1. Larger indices widen the
// field instead of truncating; existing cache-consuming tools will not find
// such files, which is a fixed limitation of the convention.
package cachekey

import "fmt"

// LevelDir returns the directory name for a level, e.g. "L03".
func LevelDir(level int) string {
	return fmt.Sprintf("L%02d", level)
}

// TileName returns the base file name (without extension) for tile (x,y),
// e.g. "R000000FFC0000000A" for x=10, y=255.
func TileName(x, y int) string {
	return fmt.Sprintf("R%08XC%08X", y, x)
}

// Name returns the level directory and tile base name for one coordinate.
func Name(level, x, y int) (dir, base string) {
	return LevelDir(level), TileName(x, y)
}
