package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the API and the UI are served from the same origin in production;
	// dev setups proxy, so origin checking is left to the deployment
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// refreshEvent is the single message type pushed to clients. Receiving it
// tells a sidebar to refetch its collections.
type refreshEvent struct {
	Type string `json:"type"`
}

// handleWS upgrades the connection and forwards bus signals to it until
// the client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	subID := uuid.New().String()
	signals, cancel := s.bus.Subscribe()
	s.logger.Debug("websocket subscriber connected", "subscriber", subID, "remote", r.RemoteAddr)

	// reader: drain client frames so pongs and close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		cancel()
		_ = conn.Close()
		s.logger.Debug("websocket subscriber disconnected", "subscriber", subID)
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-signals:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(refreshEvent{Type: "refresh"}); err != nil {
				s.logger.Debug("websocket write failed", "subscriber", subID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
