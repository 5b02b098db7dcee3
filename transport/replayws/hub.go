// Package replayws streams validated replay frames to rendering clients
// over WebSocket.
//
// A Hub groups clients by stream ID and broadcasts one Frame per replayed
// tick. Frames are produced by re-running the validated command stream
// through the simulator, so a rendering client reproduces exactly the run
// the validator accepted.
package replayws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/levelforge/levelforge/level"
	"github.com/levelforge/levelforge/sim"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Rendering clients connect from anywhere during development.
		return true
	},
}

// Frame is one replayed simulation tick.
type Frame struct {
	StreamID      string          `json:"stream_id"`
	Tick          int             `json:"tick"`
	State         sim.PlayerState `json:"state"`
	HazardContact bool            `json:"hazard_contact"`
	ExitReached   bool            `json:"exit_reached"`
	Done          bool            `json:"done"`
}

// Client is one connected rendering client.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	streamID string
}

// Hub maintains the set of active clients and broadcasts frames.
type Hub struct {
	streams    map[string]map[*Client]bool
	broadcast  chan *Frame
	register   chan *Client
	unregister chan *Client
	logger     *log.Logger

	startMu sync.Mutex
	started map[string]bool
}

// NewHub creates a replay streaming hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		streams:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Frame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		started:    make(map[string]bool),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.broadcast:
			h.broadcastFrame(frame)
		}
	}
}

// ServeWS upgrades an HTTP request and attaches the client to a stream.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, streamID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		streamID: streamID,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastFrame queues one frame for every client on its stream.
func (h *Hub) BroadcastFrame(frame *Frame) {
	h.broadcast <- frame
}

// StreamOnce launches StreamReplay in the background the first time it is
// called for a stream ID. Later calls for the same stream are no-ops, so a
// connection handler may call it per upgrade without every client forking
// its own interleaved replay.
func (h *Hub) StreamOnce(streamID string, def *level.Definition, commands []sim.InputDelta, maxTicks int, realtime bool) {
	h.startMu.Lock()
	defer h.startMu.Unlock()
	if h.started[streamID] {
		return
	}
	h.started[streamID] = true
	go h.StreamReplay(streamID, def, commands, maxTicks, realtime)
}

// StreamReplay re-simulates a command stream and broadcasts one frame per
// tick. With realtime set, frames are paced at the simulator tick rate;
// otherwise they are emitted as fast as clients drain them. The final
// frame carries Done=true.
func (h *Hub) StreamReplay(streamID string, def *level.Definition, commands []sim.InputDelta, maxTicks int, realtime bool) {
	state := sim.Spawn(def)
	cursor := sim.NewCursor(commands)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Second / sim.TicksPerSecond)
		defer ticker.Stop()
	}

	for tick := 0; tick < maxTicks; tick++ {
		var hit bool
		state, hit = sim.Step(def, state, cursor.ButtonsAt(tick))
		exit := sim.ExitReached(def, state)
		done := hit || exit || tick == maxTicks-1

		h.BroadcastFrame(&Frame{
			StreamID:      streamID,
			Tick:          state.Tick,
			State:         state,
			HazardContact: hit,
			ExitReached:   exit,
			Done:          done,
		})
		if done {
			return
		}
		if realtime {
			<-ticker.C
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.streams[client.streamID] == nil {
		h.streams[client.streamID] = make(map[*Client]bool)
	}
	h.streams[client.streamID][client] = true
	h.logger.Debug("client registered", "stream", client.streamID, "clients", len(h.streams[client.streamID]))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.streams[client.streamID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.streams, client.streamID)
	}
	h.logger.Debug("client unregistered", "stream", client.streamID, "clients", len(clients))
}

func (h *Hub) broadcastFrame(frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to marshal frame", "err", err)
		return
	}

	if clients, ok := h.streams[frame.StreamID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, drop it.
				h.unregisterClient(client)
			}
		}
	}
}

// readPump keeps the connection alive; incoming client messages are not
// processed.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "err", err)
			}
			break
		}
	}
}

// writePump pumps frames from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Fold queued frames into the current WebSocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
