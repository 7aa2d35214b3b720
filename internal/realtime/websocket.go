package realtime

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const writeTimeout = 10 * time.Second

// Handler upgrades requests to websockets and forwards change events for the
// resource named in the request path. The subscription is released when the
// client disconnects.
func Handler(hub *Hub, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource := strings.Trim(strings.TrimPrefix(r.URL.Path, "/realtime/"), "/")
		if resource == "" {
			http.NotFound(w, r)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		events, unsubscribe := hub.Subscribe(resource)
		defer unsubscribe()

		// Drain client frames so close handshakes are noticed.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, open := <-events:
				if !open {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(event); err != nil {
					logger.Debug("websocket write failed", "resource", resource, "error", err)
					return
				}
			case <-closed:
				return
			}
		}
	})
}
