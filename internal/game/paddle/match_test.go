package paddle

import (
	"math"
	"math/rand"
	"testing"
)

func newVersusMatch() *Match {
	m := NewMatch(false, rand.New(rand.NewSource(1)))
	m.Seat(1, SideLeft, "left")
	m.Seat(2, SideRight, "right")
	m.Start()
	return m
}

func newSoloMatch() *Match {
	m := NewMatch(true, rand.New(rand.NewSource(1)))
	m.Seat(1, SideLeft, "solo")
	m.Start()
	return m
}

func TestRightExitScoresLeftAndRecreatesBall(t *testing.T) {
	m := newVersusMatch()
	old := m.ball
	m.ball = &Ball{X: Width + 5, Y: Height / 2, VX: BallSpeed, VY: 0}

	if out := m.Step(); out != nil {
		t.Fatalf("match ended on a single goal: %+v", out)
	}

	if got := m.paddles[SideLeft].Score; got != 1 {
		t.Fatalf("left score = %d after right-edge exit, want 1", got)
	}
	if got := m.paddles[SideRight].Score; got != 0 {
		t.Fatalf("right score = %d, want 0", got)
	}
	if m.ball == old {
		t.Fatalf("ball was mutated in place instead of recreated")
	}
	if m.ball.X != Width/2 || m.ball.Y != Height/2 {
		t.Fatalf("new ball at (%.1f, %.1f), want arena center", m.ball.X, m.ball.Y)
	}
}

func TestLeftExitScoresRightInVersus(t *testing.T) {
	m := newVersusMatch()
	m.ball = &Ball{X: -5, Y: Height / 2, VX: -BallSpeed, VY: 0}

	m.Step()

	if got := m.paddles[SideRight].Score; got != 1 {
		t.Fatalf("right score = %d after left-edge exit, want 1", got)
	}
}

func TestTenthPointEndsVersusMatch(t *testing.T) {
	m := newVersusMatch()
	m.paddles[SideLeft].Score = WinScore - 1
	m.ball = &Ball{X: Width + 5, Y: Height / 2, VX: BallSpeed, VY: 0}

	out := m.Step()

	if out == nil {
		t.Fatalf("expected outcome when the tenth point lands")
	}
	if out.WinnerSide != SideLeft || out.WinnerID != 1 {
		t.Fatalf("winner = %s/%d, want left/1", out.WinnerSide, out.WinnerID)
	}
	if got := m.paddles[SideLeft].Score; got != WinScore {
		t.Fatalf("final score = %d, want exactly %d", got, WinScore)
	}
	if !m.GameOver() {
		t.Fatalf("match not flagged over after win")
	}
	if m.Step() != nil {
		t.Fatalf("finished match kept producing outcomes")
	}
}

func TestThirdLifeLossEndsSoloAsLoss(t *testing.T) {
	m := newSoloMatch()
	m.lives = 1
	m.ball = &Ball{X: -5, Y: Height / 2, VX: -BallSpeed, VY: 0}

	out := m.Step()

	if out == nil || out.SoloWin {
		t.Fatalf("expected a losing outcome, got %+v", out)
	}
	if len(m.bricks) == 0 {
		t.Fatalf("bricks vanished without being hit")
	}
	if m.lives != 0 {
		t.Fatalf("lives = %d, want 0", m.lives)
	}
}

func TestSoloLifeLossBeforeLastRespawnsBall(t *testing.T) {
	m := newSoloMatch()
	m.ball = &Ball{X: -5, Y: Height / 2, VX: -BallSpeed, VY: 0}

	if out := m.Step(); out != nil {
		t.Fatalf("match ended with %d lives left: %+v", m.lives, out)
	}
	if m.lives != StartLives-1 {
		t.Fatalf("lives = %d, want %d", m.lives, StartLives-1)
	}
	if m.ball.X != Width/2 {
		t.Fatalf("ball not respawned at center after life loss")
	}
}

func TestClearingAllBricksWinsSolo(t *testing.T) {
	m := newSoloMatch()
	if len(m.bricks) != BrickCols*BrickRows {
		t.Fatalf("brick field has %d bricks, want %d", len(m.bricks), BrickCols*BrickRows)
	}
	m.bricks = m.bricks[:1]
	// Park the ball inside the last brick, heading right.
	m.ball = &Ball{X: m.bricks[0].X - BrickWidth/2, Y: m.bricks[0].Y, VX: 2, VY: 0}

	out := m.Step()

	if out == nil || !out.SoloWin {
		t.Fatalf("expected a solo win, got %+v", out)
	}
	if got := m.paddles[SideLeft].Score; got != BrickPoints {
		t.Fatalf("left score = %d after final brick, want %d", got, BrickPoints)
	}
}

func TestBrickHitRemovesBrickAndAwardsPoints(t *testing.T) {
	m := newSoloMatch()
	target := m.bricks[0]
	m.ball = &Ball{X: target.X - BrickWidth/2 - BallSize/2 - 1, Y: target.Y, VX: 2, VY: 0}

	m.Step()

	if len(m.bricks) != BrickCols*BrickRows-1 {
		t.Fatalf("brick count = %d after hit, want %d", len(m.bricks), BrickCols*BrickRows-1)
	}
	if got := m.paddles[SideLeft].Score; got != BrickPoints {
		t.Fatalf("score = %d after brick hit, want %d", got, BrickPoints)
	}
	if m.ball.VX >= 0 {
		t.Fatalf("ball not reflected off brick, vx = %f", m.ball.VX)
	}
}

func TestPaddleHitAcceleratesBall(t *testing.T) {
	m := newVersusMatch()
	p := m.paddles[SideLeft]
	m.ball = &Ball{
		X:  PaddleOffset + PaddleWidth/2 + BallSize/2 + 1,
		Y:  p.Y,
		VX: -BallSpeed,
		VY: 1,
	}
	before := math.Hypot(m.ball.VX, m.ball.VY)

	m.Step()

	if m.ball.VX <= 0 {
		t.Fatalf("ball not deflected by paddle, vx = %f", m.ball.VX)
	}
	after := math.Hypot(m.ball.VX, m.ball.VY)
	if after <= before {
		t.Fatalf("rally speed %f after paddle hit, want > %f", after, before)
	}
}

func TestPaddleClampedToArena(t *testing.T) {
	m := newVersusMatch()
	m.SetInput(1, DirDown, true)

	for i := 0; i < 200; i++ {
		m.Step()
		// Keep the ball out of play so goals don't interfere.
		m.ball = &Ball{X: Width / 2, Y: Height / 2}
	}

	if got := m.paddles[SideLeft].Y; got != Height-PaddleHeight/2 {
		t.Fatalf("paddle y = %f after holding down, want clamp at %f", got, Height-PaddleHeight/2)
	}

	m.SetInput(1, DirDown, false)
	m.SetInput(1, DirUp, true)
	for i := 0; i < 200; i++ {
		m.Step()
		m.ball = &Ball{X: Width / 2, Y: Height / 2}
	}
	if got := m.paddles[SideLeft].Y; got != PaddleHeight/2 {
		t.Fatalf("paddle y = %f after holding up, want clamp at %f", got, PaddleHeight/2)
	}
}

func TestPausedMatchDoesNotAdvance(t *testing.T) {
	m := newVersusMatch()
	m.ball = &Ball{X: Width / 2, Y: Height / 2, VX: BallSpeed, VY: 0}
	m.SetPaused(true)

	if out := m.Step(); out != nil {
		t.Fatalf("paused step produced outcome %+v", out)
	}
	if m.ball.X != Width/2 {
		t.Fatalf("ball moved while paused")
	}

	m.SetPaused(false)
	m.Step()
	if m.ball.X == Width/2 {
		t.Fatalf("ball did not move after unpause")
	}
}

func TestSoloSeatsLeftOnly(t *testing.T) {
	m := NewMatch(true, rand.New(rand.NewSource(1)))
	side, ok := m.FreeSide()
	if !ok || side != SideLeft {
		t.Fatalf("first free side = %v/%v, want left", side, ok)
	}
	m.Seat(1, side, "p1")
	if _, ok := m.FreeSide(); ok {
		t.Fatalf("solo match offered a second side")
	}
}

func TestVersusSeatsLeftThenRight(t *testing.T) {
	m := NewMatch(false, rand.New(rand.NewSource(1)))
	s1, _ := m.FreeSide()
	m.Seat(1, s1, "a")
	s2, ok := m.FreeSide()
	if s1 != SideLeft || s2 != SideRight || !ok {
		t.Fatalf("seating order %v then %v, want left then right", s1, s2)
	}
	m.Seat(2, s2, "b")
	if _, ok := m.FreeSide(); ok {
		t.Fatalf("full match offered a third side")
	}
}
