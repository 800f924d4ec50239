package session

import (
	"crypto/rand"
	"math/big"
	"time"

	"arcadehub/internal/session/message"
)

// Unambiguous room-code alphabet (no I/O/0/1 lookalikes).
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// Registry owns the room map for its process. It is constructed once at
// startup and injected into the dispatcher; there is no ambient global.
// Like everything else in this package it is touched only by the dispatch
// goroutine.
type Registry struct {
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create allocates a room under a fresh code.
func (reg *Registry) Create(mode Mode, host message.Sender, now time.Time) *Room {
	code := generateCode(codeLength)
	for _, taken := reg.rooms[code]; taken; _, taken = reg.rooms[code] {
		code = generateCode(codeLength)
	}
	r := newRoom(code, mode, host, now)
	reg.rooms[code] = r
	return r
}

func (reg *Registry) Get(code string) (*Room, bool) {
	r, ok := reg.rooms[code]
	return r, ok
}

func (reg *Registry) Delete(code string) {
	delete(reg.rooms, code)
}

func (reg *Registry) Len() int { return len(reg.rooms) }

// Rooms returns a snapshot slice so callers can destroy while iterating.
func (reg *Registry) Rooms() []*Room {
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
