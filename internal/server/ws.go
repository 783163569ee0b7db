package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// handleWSGame streams the same events as the SSE endpoint over a
// websocket, for clients that keep a bidirectional connection open
// anyway. The token travels as a query parameter.
func handleWSGame(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "token query parameter required")
			return
		}
		if _, ok := sessions.get(token); !ok {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		// Sessions are short; cap the connection well past the longest
		// game rather than tracking engine state here.
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		ch := sessions.broker.Subscribe(token)
		defer sessions.broker.Unsubscribe(token, ch)

		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
