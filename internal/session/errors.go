package session

import "errors"

// Error taxonomy of the room state machine. The client-facing subset is
// surfaced through a single generic error notification with a readable
// message; none of these ever escapes into the dispatch loop as a panic.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyStarted = errors.New("game already started")
	ErrInvalidState   = errors.New("command not valid in current state")
)
