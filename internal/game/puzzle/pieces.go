package puzzle

// Shape is a piece footprint; 1 marks an occupied cell.
type Shape [][]int

// Piece is the falling tetromino: its footprint plus grid origin.
type Piece struct {
	Type  string
	Shape Shape
	X, Y  int
}

// The seven canonical tetrominoes. Keys double as board cell tags so the
// client can color locked cells by piece type.
var shapes = map[string]Shape{
	"I": {{1, 1, 1, 1}},
	"J": {{1, 0, 0}, {1, 1, 1}},
	"L": {{0, 0, 1}, {1, 1, 1}},
	"O": {{1, 1}, {1, 1}},
	"S": {{0, 1, 1}, {1, 1, 0}},
	"T": {{0, 1, 0}, {1, 1, 1}},
	"Z": {{1, 1, 0}, {0, 1, 1}},
}

// pieceTypes is a fixed draw order so an injected rng replays identically.
var pieceTypes = []string{"I", "J", "L", "O", "S", "T", "Z"}

func cloneShape(s Shape) Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// rotated returns the 90 degree clockwise rotation (transpose + row reverse).
func rotated(s Shape) Shape {
	if len(s) == 0 {
		return nil
	}
	rows, cols := len(s), len(s[0])
	out := make(Shape, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]int, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = s[rows-1-j][i]
		}
	}
	return out
}
