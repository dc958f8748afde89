package websocket

import (
	"net/http"

	"bistro-backend/internal/middleware"
	"bistro-backend/pkg/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades an authenticated request. Browsers cannot set
// headers on a WebSocket handshake, so the token may come as ?token=.
func HandleWebSocket(hub *Hub, jwtSecret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var claims middleware.UserClaims

		if tokenString := r.URL.Query().Get("token"); tokenString != "" {
			c, err := middleware.ParseToken(jwtSecret, tokenString)
			if err != nil {
				logger.Warn("invalid websocket token", zap.Error(err))
				utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			claims = c
		} else {
			c, ok := middleware.GetUserFromContext(r)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Missing token")
				return
			}
			claims = c
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(claims.UserID, claims.Role, conn, hub)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
