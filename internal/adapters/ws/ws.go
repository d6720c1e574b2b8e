// Package ws carries the surface message channel over a websocket. One
// goroutine reads, one writes; replies preserve the arrival order of the
// messages that produced them.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/AlexSkos/drinkmap/internal/bridge"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 50 * time.Second
	maxFrameSize = 4096
	sendBacklog  = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The surface page is served by this same process; origin checks add
	// nothing for a same-host embed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	bridge *bridge.Bridge
}

func NewHandler(b *bridge.Bridge) *Handler {
	return &Handler{bridge: b}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.serve(r.Context(), conn)
}

func (h *Handler) serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	out := make(chan []byte, sendBacklog)
	done := make(chan struct{})
	go writer(conn, out, done)
	defer close(out)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
		msg, err := bridge.Decode(data)
		if err != nil {
			// Malformed or unknown messages are dropped without a reply.
			log.Debug().Err(err).Msg("dropping surface message")
			continue
		}
		reply, ok := h.bridge.Handle(ctx, msg)
		if !ok {
			continue
		}
		select {
		case out <- bridge.Encode(reply):
		case <-done:
			return
		}
	}
}

// writer owns all writes to the connection, including pings.
func writer(conn *websocket.Conn, out <-chan []byte, done chan<- struct{}) {
	defer close(done)
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case data, ok := <-out:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
