package network

// clientMessage pairs an inbound message with the client that sent it.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub owns the set of live clients and serializes every event that touches
// game state. Commands from read loops, connect/disconnect notifications and
// scheduled tasks all run to completion on the hub goroutine, one at a time,
// so the handler never needs a lock.
type Hub struct {
	// Registered clients. Touched only by the hub goroutine.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// Inbound messages from client read loops.
	incoming chan clientMessage

	// Deferred work posted by timers and background completions. Executed
	// on the hub goroutine like any other event.
	tasks chan func()

	handler EventHandler
}

// NewHub creates a hub that routes every event to handler.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage, 64),
		tasks:      make(chan func(), 256),
		handler:    handler,
	}
}

// Do schedules fn to run on the hub goroutine. It is how timer callbacks and
// persistence completions re-enter the single-threaded world.
func (h *Hub) Do(fn func()) {
	h.tasks <- fn
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// The handler runs first: its cleanup may still broadcast
				// to the departing client, which must not hit a closed
				// channel. Closing send afterwards stops the writeLoop.
				h.handler.OnDisconnect(client)
				close(client.send)
			}

		case cm := <-h.incoming:
			h.handler.OnMessage(cm.client, cm.msg)

		case fn := <-h.tasks:
			fn()
		}
	}
}
