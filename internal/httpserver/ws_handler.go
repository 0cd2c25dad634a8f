package httpserver

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/notify"
	"zanonyme_go/internal/security"
)

// handleWS upgrades the dashboard connection and parks it in the hub so
// new-message events can be pushed in real time. The socket is read-only
// from the client side; inbound frames are drained and discarded until the
// peer closes.
func handleWS(
	hub *notify.Hub,
	verifier *security.TokenVerifier,
	accounts domain.AccountRepository,
	allowedOrigins []string,
	log zerolog.Logger,
) http.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			tokenStr = bearerToken(r)
		}
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		account, err := accounts.GetByID(r.Context(), claims.Subject)
		if err != nil || account == nil {
			http.Error(w, "account not provisioned", http.StatusUnauthorized)
			return
		}
		if account.Status == domain.AccountSuspended {
			http.Error(w, "account suspended", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hub.Register(account.ID, conn)
		defer hub.Unregister(account.ID, conn)
		log.Debug().Str("account_id", account.ID).Msg("ws connected")

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
