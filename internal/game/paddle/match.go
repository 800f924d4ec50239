// Package paddle implements the per-room ball-and-paddle simulation: two
// vertically sliding paddles, an elastic ball, and in solo mode a brick
// field with limited lives. The match advances on fixed ticks driven by the
// session layer and knows nothing about rooms or networking.
package paddle

import (
	"math"
	"math/rand"
)

// Side identifies a paddle's half of the arena.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Direction is a vertical movement intent.
type Direction string

const (
	DirUp   Direction = "up"
	DirDown Direction = "down"
)

// Ball carries position and velocity. A ball is never reused across a
// scoring event; a fresh one replaces it so no stale velocity leaks through.
type Ball struct {
	X, Y   float64
	VX, VY float64
}

// Paddle is one seated player's state.
type Paddle struct {
	ID   int
	Side Side
	Name string

	Y     float64
	Score int

	up, down bool
}

// Brick is a static destructible block, alive until hit.
type Brick struct {
	X, Y float64
}

// Outcome reports a finished match. Nil from Step means play continues.
type Outcome struct {
	Solo       bool
	SoloWin    bool
	WinnerID   int
	WinnerSide Side
	WinnerName string
}

// Match is one room's paddle game. Not safe for concurrent use; the session
// dispatch goroutine is its only caller.
type Match struct {
	solo bool
	rng  *rand.Rand

	ball    *Ball
	paddles map[Side]*Paddle
	bricks  []Brick
	lives   int

	started  bool
	paused   bool
	gameOver bool
}

// NewMatch creates an unstarted match. Solo mode lays out the brick field
// and arms the life counter. The rng drives launch angles.
func NewMatch(solo bool, rng *rand.Rand) *Match {
	m := &Match{
		solo:    solo,
		rng:     rng,
		paddles: make(map[Side]*Paddle),
	}
	if solo {
		m.lives = StartLives
		m.bricks = buildBrickField()
	}
	return m
}

func buildBrickField() []Brick {
	bricks := make([]Brick, 0, BrickCols*BrickRows)
	for c := 0; c < BrickCols; c++ {
		for r := 0; r < BrickRows; r++ {
			bricks = append(bricks, Brick{
				X: Width - 60 - float64(c)*(BrickWidth+BrickGap),
				Y: float64(r)*BrickHeight + BrickHeight/2,
			})
		}
	}
	return bricks
}

func (m *Match) Started() bool  { return m.started }
func (m *Match) Paused() bool   { return m.paused }
func (m *Match) GameOver() bool { return m.gameOver }
func (m *Match) Lives() int     { return m.lives }

// FreeSide returns the first unseated side, left before right. Solo matches
// only ever seat the left side.
func (m *Match) FreeSide() (Side, bool) {
	if _, ok := m.paddles[SideLeft]; !ok {
		return SideLeft, true
	}
	if _, ok := m.paddles[SideRight]; !ok && !m.solo {
		return SideRight, true
	}
	return "", false
}

// Seat places a player's paddle on the given side at center height.
func (m *Match) Seat(id int, side Side, name string) {
	if name == "" {
		name = string(side)
	}
	m.paddles[side] = &Paddle{ID: id, Side: side, Name: name, Y: Height / 2}
}

// Unseat removes the paddle owned by the given player id.
func (m *Match) Unseat(id int) {
	for side, p := range m.paddles {
		if p.ID == id {
			delete(m.paddles, side)
		}
	}
}

// Start launches the first ball. Further calls are no-ops.
func (m *Match) Start() {
	if m.started {
		return
	}
	m.started = true
	m.ball = m.newBall()
}

// SetPaused flips the advisory pause flag; the tick loop keeps firing and
// checks it at the top of every step.
func (m *Match) SetPaused(p bool) { m.paused = p }

// SetInput records a directional intent for the paddle owned by id. The
// flags are consumed continuously by Step rather than moving the paddle now.
func (m *Match) SetInput(id int, dir Direction, pressed bool) {
	for _, p := range m.paddles {
		if p.ID != id {
			continue
		}
		switch dir {
		case DirUp:
			p.up = pressed
		case DirDown:
			p.down = pressed
		}
	}
}

// SideOf reports which side, if any, the given player occupies.
func (m *Match) SideOf(id int) (Side, bool) {
	for side, p := range m.paddles {
		if p.ID == id {
			return side, true
		}
	}
	return "", false
}

// SetSideInput records a directional intent for a side directly. Rooms where
// a single connection drives both paddles use this instead of SetInput.
func (m *Match) SetSideInput(side Side, dir Direction, pressed bool) {
	p, ok := m.paddles[side]
	if !ok {
		return
	}
	switch dir {
	case DirUp:
		p.up = pressed
	case DirDown:
		p.down = pressed
	}
}

// newBall spawns at center with fixed speed and a launch angle uniform in
// ±45 degrees from horizontal, heading a random direction.
func (m *Match) newBall() *Ball {
	angle := (m.rng.Float64()*0.5 - 0.25) * math.Pi
	dir := 1.0
	if m.rng.Float64() < 0.5 {
		dir = -1.0
	}
	return &Ball{
		X:  Width / 2,
		Y:  Height / 2,
		VX: dir * BallSpeed * math.Cos(angle),
		VY: BallSpeed * math.Sin(angle),
	}
}

// Step advances the simulation one tick: paddle movement, ball integration,
// collisions, goals and win conditions. It returns a non-nil Outcome on the
// tick the match ends. Paused or unstarted matches no-op.
func (m *Match) Step() *Outcome {
	if m.gameOver || m.paused || !m.started {
		return nil
	}

	for _, p := range m.paddles {
		dy := 0.0
		if p.up {
			dy -= PaddleSpeed
		}
		if p.down {
			dy += PaddleSpeed
		}
		p.Y = clamp(p.Y+dy, PaddleHeight/2, Height-PaddleHeight/2)
	}

	m.integrate()

	if out := m.checkGoals(); out != nil {
		return out
	}
	return m.checkWin()
}

func (m *Match) integrate() {
	b := m.ball
	if b == nil {
		return
	}
	b.X += b.VX
	b.Y += b.VY

	half := BallSize / 2

	// Top and bottom walls.
	if b.Y-half < 0 {
		b.Y = half
		b.VY = -b.VY * Restitution
	} else if b.Y+half > Height {
		b.Y = Height - half
		b.VY = -b.VY * Restitution
	}

	// Solo mode closes the right edge so the ball stays with the bricks.
	if m.solo && b.X+half > Width {
		b.X = Width - half
		b.VX = -b.VX * Restitution
	}

	m.collideBricks(b)
	m.collidePaddles(b)
}

func (m *Match) collideBricks(b *Ball) {
	half := BallSize / 2
	for i, brick := range m.bricks {
		dx := b.X - brick.X
		dy := b.Y - brick.Y
		overlapX := half + BrickWidth/2 - math.Abs(dx)
		overlapY := half + BrickHeight/2 - math.Abs(dy)
		if overlapX <= 0 || overlapY <= 0 {
			continue
		}

		m.bricks = append(m.bricks[:i], m.bricks[i+1:]...)
		if left, ok := m.paddles[SideLeft]; ok {
			left.Score += BrickPoints
		}

		// Reflect along the axis of least penetration.
		if overlapX < overlapY {
			b.VX = -b.VX * Restitution
		} else {
			b.VY = -b.VY * Restitution
		}
		return
	}
}

func (m *Match) collidePaddles(b *Ball) {
	half := BallSize / 2
	for _, p := range m.paddles {
		px := PaddleOffset
		if p.Side == SideRight {
			px = Width - PaddleOffset
		}
		if math.Abs(b.X-px) > half+PaddleWidth/2 || math.Abs(b.Y-p.Y) > half+PaddleHeight/2 {
			continue
		}
		// Only deflect a ball moving into the paddle.
		if (p.Side == SideLeft && b.VX >= 0) || (p.Side == SideRight && b.VX <= 0) {
			continue
		}

		b.VX = -b.VX * PaddleAccel
		b.VY *= PaddleAccel

		// Push the ball clear of the paddle so it cannot double-hit.
		if p.Side == SideLeft {
			b.X = px + PaddleWidth/2 + half
		} else {
			b.X = px - PaddleWidth/2 - half
		}
	}
}

func (m *Match) checkGoals() *Outcome {
	b := m.ball
	if b == nil {
		return nil
	}

	if b.X < 0 {
		if m.solo {
			m.lives--
			if m.lives <= 0 {
				m.gameOver = true
				return &Outcome{Solo: true, SoloWin: false, WinnerSide: SideLeft}
			}
			m.ball = m.newBall()
			return nil
		}
		if right, ok := m.paddles[SideRight]; ok {
			right.Score++
		}
		m.ball = m.newBall()
		return nil
	}

	if !m.solo && b.X > Width {
		if left, ok := m.paddles[SideLeft]; ok {
			left.Score++
		}
		m.ball = m.newBall()
	}
	return nil
}

func (m *Match) checkWin() *Outcome {
	if !m.solo {
		for _, p := range m.paddles {
			if p.Score >= WinScore {
				m.gameOver = true
				return &Outcome{WinnerID: p.ID, WinnerSide: p.Side, WinnerName: p.Name}
			}
		}
		return nil
	}
	if len(m.bricks) == 0 {
		m.gameOver = true
		return &Outcome{Solo: true, SoloWin: true, WinnerSide: SideLeft}
	}
	return nil
}

// Leader returns the highest-scoring paddle, used when a match is ended
// manually before a natural win.
func (m *Match) Leader() *Paddle {
	var best *Paddle
	for _, p := range m.paddles {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
