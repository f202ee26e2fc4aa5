package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/deepresearch-labs/deep-research/internal/config"
)

// Handler upgrades HTTP connections and attaches them to the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a WebSocket handler. Origin checks follow the CORS
// allow list.
func NewHandler(hub *Hub, cors *config.CORSConfig, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return cors.AllowsOrigin(origin)
			},
		},
		logger: logger.With("handler", "ws"),
	}
}

// RegisterRoutes attaches the WebSocket endpoint to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.connect)
}

func (h *Handler) connect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:      conn,
		sessionID: r.URL.Query().Get("session_id"),
		send:      make(chan []byte, 64),
	}

	h.hub.add(c)
	h.logger.Debug("client connected", "session", c.sessionID, "clients", h.hub.ClientCount())

	go c.writeLoop()
	go h.hub.readLoop(c)
}
