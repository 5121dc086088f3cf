package mesh

// MeshCoordinate identifies a compute unit position on the 2D mesh. X is the grid
// column and Y the grid row, matching the row-major rank layout.
type MeshCoordinate struct {
	X int
	Y int
}

// ManhattanDistance returns the hop distance between two mesh coordinates.
func ManhattanDistance(a, b MeshCoordinate) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// GridRow returns the mesh row of rank.
func GridRow(rank, columnCount int) int {
	return rank / columnCount
}

// GridColumn returns the mesh column of rank.
func GridColumn(rank, columnCount int) int {
	return rank % columnCount
}

// Coordinate maps rank onto the mesh.
func Coordinate(rank, columnCount int) MeshCoordinate {
	return MeshCoordinate{X: GridColumn(rank, columnCount), Y: GridRow(rank, columnCount)}
}

// RankOf is the inverse of Coordinate.
func RankOf(coord MeshCoordinate, columnCount int) int {
	return coord.Y*columnCount + coord.X
}

func IsFirstColumn(rank, columnCount int) bool {
	return rank%columnCount == 0
}

func IsFirstRow(rank, columnCount int) bool {
	return rank < columnCount
}

func IsLastColumn(rank, columnCount int) bool {
	return (rank+1)%columnCount == 0
}

func IsLastRow(rank, rowCount, columnCount int) bool {
	return rank >= columnCount*(rowCount-1)
}

// Up, Down, Left and Right return neighbour ranks. They are only meaningful when the
// matching boundary predicate says the neighbour exists.
func Up(rank, columnCount int) int {
	return rank - columnCount
}

func Down(rank, columnCount int) int {
	return rank + columnCount
}

func Left(rank int) int {
	return rank - 1
}

func Right(rank int) int {
	return rank + 1
}
