package paddle

// Snapshot is the wire form of a match broadcast every tick.
type Snapshot struct {
	Ball    *BallSnapshot    `json:"ball"`
	Players []PlayerSnapshot `json:"players"`
	Bricks  []BrickSnapshot  `json:"bricks"`
	Solo    bool             `json:"isSolo"`
	Lives   int              `json:"lives"`
	Started bool             `json:"started"`
}

type BallSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PlayerSnapshot struct {
	ID       int     `json:"id"`
	Y        float64 `json:"y"`
	Score    int     `json:"score"`
	Side     Side    `json:"side"`
	Username string  `json:"username"`
}

type BrickSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot captures the current state for broadcast. Sides are emitted in a
// fixed order so consecutive frames diff cleanly.
func (m *Match) Snapshot() Snapshot {
	snap := Snapshot{
		Players: make([]PlayerSnapshot, 0, len(m.paddles)),
		Bricks:  make([]BrickSnapshot, 0, len(m.bricks)),
		Solo:    m.solo,
		Lives:   m.lives,
		Started: m.started,
	}
	if m.ball != nil {
		snap.Ball = &BallSnapshot{X: m.ball.X, Y: m.ball.Y}
	}
	for _, side := range []Side{SideLeft, SideRight} {
		if p, ok := m.paddles[side]; ok {
			snap.Players = append(snap.Players, PlayerSnapshot{
				ID:       p.ID,
				Y:        p.Y,
				Score:    p.Score,
				Side:     p.Side,
				Username: p.Name,
			})
		}
	}
	for _, b := range m.bricks {
		snap.Bricks = append(snap.Bricks, BrickSnapshot{X: b.X, Y: b.Y})
	}
	return snap
}
