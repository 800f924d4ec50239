package network

import (
	"testing"
	"time"
)

// recorder captures hub callbacks on a channel so the test can observe the
// order events were delivered in.
type recorder struct {
	events chan string
}

func (r *recorder) OnConnect(c *Client)    { r.events <- "connect:" + c.ID() }
func (r *recorder) OnDisconnect(c *Client) { r.events <- "disconnect:" + c.ID() }

func (r *recorder) OnMessage(c *Client, msg Message) { r.events <- "message:" + msg.Type }

func expectEvent(t *testing.T, events chan string, want string) {
	t.Helper()
	select {
	case got := <-events:
		if got != want {
			t.Fatalf("event = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestHubSerializesLifecycleAndTasks(t *testing.T) {
	r := &recorder{events: make(chan string, 8)}
	hub := NewHub(r)
	go hub.Run()

	client := &Client{id: "c1", hub: hub, send: make(chan Message, 8)}
	hub.register <- client
	expectEvent(t, r.events, "connect:c1")

	hub.incoming <- clientMessage{client: client, msg: Message{Type: "PING"}}
	expectEvent(t, r.events, "message:PING")

	done := make(chan struct{})
	hub.Do(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task posted with Do never ran")
	}

	hub.unregister <- client
	expectEvent(t, r.events, "disconnect:c1")
	if _, open := <-client.send; open {
		t.Fatal("send channel must be closed on unregister")
	}
}

// closer answers every disconnect by notifying the departing client, the
// way room teardown broadcasts ROOM_CLOSED to all members including a
// leaving host.
type closer struct {
	sent chan bool
}

func (cl *closer) OnConnect(c *Client)              {}
func (cl *closer) OnDisconnect(c *Client)           { cl.sent <- c.TrySend(Message{Type: "ROOM_CLOSED"}) }
func (cl *closer) OnMessage(c *Client, msg Message) {}

func TestUnregisterAllowsSendToDepartingClient(t *testing.T) {
	cl := &closer{sent: make(chan bool, 1)}
	hub := NewHub(cl)
	go hub.Run()

	client := &Client{id: "host", hub: hub, send: make(chan Message, 8)}
	hub.register <- client
	hub.unregister <- client

	// A panic in the disconnect path would kill the hub goroutine and
	// nothing would ever arrive here.
	select {
	case ok := <-cl.sent:
		if !ok {
			t.Fatal("send to the departing client was dropped")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect handling never completed")
	}

	msg, open := <-client.send
	if !open || msg.Type != "ROOM_CLOSED" {
		t.Fatalf("departing client got (%v, open=%v), want its ROOM_CLOSED", msg, open)
	}
	if _, open := <-client.send; open {
		t.Fatal("send channel must still be closed after the handler ran")
	}
}
