package common

// TileCoordinate addresses one tile of the pyramid. X grows east, Y grows
// south from the grid origin at the top-left.
type TileCoordinate struct {
	Level int
	X     int
	Y     int
}
