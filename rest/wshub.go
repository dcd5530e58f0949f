package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"nhooyr.io/websocket"

	"holdem-gameserver/game"
	"holdem-gameserver/logging"
)

var hubLogger = logging.GetZeroLogger("rest::wshub", nil)

const writeTimeout = 5 * time.Second

// client is one websocket subscriber. Updates are queued on a buffered
// channel; a client that cannot keep up gets disconnected rather than
// blocking the table.
type client struct {
	gameID   string
	playerID uint64
	updates  chan []byte
	closed   chan struct{}
}

// Hub fans game updates out to websocket subscribers. It implements
// game.NotificationSink: broadcasts reach every subscriber of the game,
// private messages only the connections owned by that player.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Subscribe upgrades the request to a websocket and streams the game's
// updates until the client disconnects.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, gameID string, playerID uint64) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		hubLogger.Error().Err(err).
			Str(logging.GameIDKey, gameID).
			Msg("Websocket upgrade failed")
		return
	}

	cl := &client{
		gameID:   gameID,
		playerID: playerID,
		updates:  make(chan []byte, 32),
		closed:   make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	// the read loop only detects disconnects; clients never send
	go func() {
		defer close(cl.closed)
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case data := <-cl.updates:
			ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
			err := conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-cl.closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Hub) Broadcast(gameID string, update *game.GameUpdate) {
	h.send(gameID, 0, update)
}

func (h *Hub) NotifyPlayer(gameID string, playerID uint64, update *game.GameUpdate) {
	h.send(gameID, playerID, update)
}

func (h *Hub) send(gameID string, playerID uint64, update *game.GameUpdate) {
	data, err := jsoniter.Marshal(update)
	if err != nil {
		hubLogger.Error().Err(err).
			Str(logging.GameIDKey, gameID).
			Msgf("Could not marshal update %s", update.Type)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		if cl.gameID != gameID {
			continue
		}
		if playerID != 0 && cl.playerID != playerID {
			continue
		}
		select {
		case cl.updates <- data:
		default:
			// slow consumer, drop the update
		}
	}
}
