package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/morezero/employee-service/pkg/rpc"
)

const (
	wsWriteWait    = 10 * time.Second
	wsMaxFrameSize = maxBodyBytes
)

// wsHandler serves RPC over a WebSocket: every text frame is one request and
// is answered by one envelope frame, in order.
type wsHandler struct {
	router   *rpc.Router
	upgrader websocket.Upgrader
}

func newWSHandler(router *rpc.Router) *wsHandler {
	return &wsHandler{
		router: router,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - websocket upgrade failed: %v", logPrefix, err))
		return
	}
	defer ws.Close()
	ws.SetReadLimit(wsMaxFrameSize)

	ctx := r.Context()
	slog.Debug(fmt.Sprintf("%s - websocket connected from %s", logPrefix, r.RemoteAddr))
	for {
		kind, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn(fmt.Sprintf("%s - websocket read: %v", logPrefix, err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		reply, _ := handleFrame(ctx, h.router, data)
		_ = ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := ws.WriteMessage(websocket.TextMessage, reply); err != nil {
			slog.Warn(fmt.Sprintf("%s - websocket write: %v", logPrefix, err))
			return
		}
	}
}
