package paddle

// Arena and gameplay constants. Values mirror the classic feel: rallies
// speed up on every paddle hit and bounces restore slightly more energy
// than they absorb.
const (
	Width  = 800.0
	Height = 500.0

	TickRate = 60 // physics steps per second

	BallSize  = 12.0
	BallSpeed = 7.0

	PaddleWidth  = 12.0
	PaddleHeight = 80.0
	PaddleSpeed  = 10.0
	PaddleOffset = 30.0 // horizontal distance from the arena edge

	Restitution = 1.05 // wall and brick bounces
	PaddleAccel = 1.12 // velocity multiplier on paddle hits

	WinScore = 10

	// Solo mode: a destructible brick field on the right and limited lives.
	BrickCols   = 3
	BrickRows   = 10
	BrickWidth  = 20.0
	BrickGap    = 5.0
	BrickPoints = 50
	StartLives  = 3
)

// BrickHeight is derived so the field spans the full arena height.
const BrickHeight = Height / BrickRows
