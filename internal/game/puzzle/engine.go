// Package puzzle implements the per-player block-stacking simulation: a
// 10x20 grid, a falling piece with one-piece lookahead, line clearing and
// garbage injection. The engine knows nothing about rooms or networking.
package puzzle

import "math/rand"

const (
	Cols = 10
	Rows = 20

	pointsPerLine = 100
	linesPerLevel = 10
)

// Cell is a board cell tag: empty, a piece type, or garbage.
type Cell string

const (
	CellEmpty   Cell = ""
	CellGarbage Cell = "garbage"
)

// Engine is one player's game. It is not safe for concurrent use; the
// session dispatch goroutine is its only caller.
type Engine struct {
	board [][]Cell
	rng   *rand.Rand

	current *Piece
	next    *Piece

	score    int
	lines    int
	level    int
	gameOver bool

	// Lines removed by the most recent lock, consumed once per tick via
	// TakeClearedLines to drive the garbage transfer.
	lastCleared int
}

// NewEngine creates a fresh game with the first piece already spawned.
// The rng is injected so tests can replay piece sequences.
func NewEngine(rng *rand.Rand) *Engine {
	board := make([][]Cell, Rows)
	for i := range board {
		board[i] = make([]Cell, Cols)
	}
	e := &Engine{board: board, rng: rng, level: 1}
	e.spawn()
	return e
}

func (e *Engine) Score() int     { return e.score }
func (e *Engine) Lines() int     { return e.lines }
func (e *Engine) Level() int     { return e.level }
func (e *Engine) GameOver() bool { return e.gameOver }

// NextType reports the buffered piece's type for the client preview.
func (e *Engine) NextType() string {
	if e.next == nil {
		return ""
	}
	return e.next.Type
}

func (e *Engine) randomPiece() *Piece {
	t := pieceTypes[e.rng.Intn(len(pieceTypes))]
	return &Piece{Type: t, Shape: cloneShape(shapes[t])}
}

// spawn promotes the lookahead piece, centers it at the top row and draws a
// new lookahead. Spawning into occupied terrain is the classic top-out.
func (e *Engine) spawn() {
	if e.next == nil {
		e.next = e.randomPiece()
	}
	e.current = e.next
	e.next = e.randomPiece()

	e.current.X = (Cols - len(e.current.Shape[0])) / 2
	e.current.Y = 0

	if e.collides(e.current.X, e.current.Y, e.current.Shape) {
		e.gameOver = true
	}
}

// collides reports whether the shape at (x, y) overlaps walls, the floor or
// locked cells. Cells above the top row are allowed.
func (e *Engine) collides(x, y int, s Shape) bool {
	for row := range s {
		for col := range s[row] {
			if s[row][col] == 0 {
				continue
			}
			nx, ny := x+col, y+row
			if nx < 0 || nx >= Cols || ny >= Rows {
				return true
			}
			if ny >= 0 && e.board[ny][nx] != CellEmpty {
				return true
			}
		}
	}
	return false
}

// Move offsets the current piece when the target position is free and
// reports whether anything changed.
func (e *Engine) Move(dx, dy int) bool {
	if e.gameOver {
		return false
	}
	if e.collides(e.current.X+dx, e.current.Y+dy, e.current.Shape) {
		return false
	}
	e.current.X += dx
	e.current.Y += dy
	return true
}

// Rotate tries the rotated shape in place, then one cell left, then one cell
// right. If all three collide the rotation is silently dropped.
func (e *Engine) Rotate() {
	if e.gameOver {
		return
	}
	ns := rotated(e.current.Shape)
	for _, kick := range []int{0, -1, 1} {
		if !e.collides(e.current.X+kick, e.current.Y, ns) {
			e.current.X += kick
			e.current.Shape = ns
			return
		}
	}
}

// Drop advances the piece one row. On landing it locks the piece, clears
// lines, spawns the next piece and returns false so the caller can run the
// garbage transfer.
func (e *Engine) Drop() bool {
	if e.gameOver {
		return false
	}
	if !e.Move(0, 1) {
		e.lock()
		e.clearLines()
		e.spawn()
		return false
	}
	return true
}

// HardDrop sends the piece straight down and resolves the landing once.
func (e *Engine) HardDrop() {
	if e.gameOver {
		return
	}
	for e.Move(0, 1) {
	}
	e.lock()
	e.clearLines()
	e.spawn()
}

func (e *Engine) lock() {
	p := e.current
	for row := range p.Shape {
		for col := range p.Shape[row] {
			if p.Shape[row][col] != 0 && p.Y+row >= 0 {
				e.board[p.Y+row][p.X+col] = Cell(p.Type)
			}
		}
	}
}

// clearLines removes every fully occupied row, bottom up, inserting an empty
// row at the top per clearance. The same index is re-examined after a clear
// because the rows above have shifted down into it.
func (e *Engine) clearLines() {
	cleared := 0
	for row := Rows - 1; row >= 0; row-- {
		full := true
		for col := 0; col < Cols; col++ {
			if e.board[row][col] == CellEmpty {
				full = false
				break
			}
		}
		if !full {
			continue
		}
		e.board = append(e.board[:row], e.board[row+1:]...)
		empty := make([]Cell, Cols)
		e.board = append([][]Cell{empty}, e.board...)
		cleared++
		row++
	}
	if cleared > 0 {
		e.score += cleared * pointsPerLine * e.level
		e.lines += cleared
		e.level = e.lines/linesPerLevel + 1
	}
	e.lastCleared = cleared
}

// TakeClearedLines returns the line count of the most recent lock and resets
// it, so each landing feeds the garbage rule exactly once.
func (e *Engine) TakeClearedLines() int {
	n := e.lastCleared
	e.lastCleared = 0
	return n
}

// AddGarbage shifts the stack up by removing top rows and appending bottom
// rows of garbage cells, each with one uniformly random gap.
func (e *Engine) AddGarbage(lines int) {
	for i := 0; i < lines; i++ {
		e.board = e.board[1:]
		row := make([]Cell, Cols)
		for c := range row {
			row[c] = CellGarbage
		}
		row[e.rng.Intn(Cols)] = CellEmpty
		e.board = append(e.board, row)
	}
}

// Render returns the board with the current piece overlaid, leaving the
// locked state untouched.
func (e *Engine) Render() [][]Cell {
	out := make([][]Cell, Rows)
	for i, row := range e.board {
		out[i] = append([]Cell(nil), row...)
	}
	if p := e.current; p != nil {
		for row := range p.Shape {
			for col := range p.Shape[row] {
				if p.Shape[row][col] == 0 {
					continue
				}
				ny, nx := p.Y+row, p.X+col
				if ny >= 0 && ny < Rows && nx >= 0 && nx < Cols {
					out[ny][nx] = Cell(p.Type)
				}
			}
		}
	}
	return out
}
