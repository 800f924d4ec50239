package network

// EventHandler is the seam between the network layer and the game logic.
// The session package implements it; all three methods are invoked from the
// hub goroutine, so implementations may mutate shared state freely.
type EventHandler interface {
	// OnConnect is called when a client finishes the websocket handshake.
	OnConnect(c *Client)

	// OnDisconnect is called after a client's read loop ends.
	OnDisconnect(c *Client)

	// OnMessage is called for every decoded message from a client.
	OnMessage(c *Client, msg Message)
}
