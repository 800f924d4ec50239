package network

import "encoding/json"

// Message is the envelope for all traffic in both directions. Type routes the
// message; Payload stays raw JSON so each handler decodes its own shape.
type Message struct {
	Type    string          `json:"type"` // e.g. "CREATE_ROOM", "GAME_STATE"
	Payload json.RawMessage `json:"payload,omitempty"`
}
