package ws

import (
	"net/http"
	"slices"

	"github.com/vedran77/jobly/internal/authz"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/transport/http/middleware"
	"nhooyr.io/websocket"
)

// ServeWS upgrades GET /users/{username}/events to a websocket feed of that
// user's application events. Browsers cannot set headers on the upgrade,
// so the token may also come from ?token=.
func ServeWS(hub *Hub, verifier middleware.TokenVerifier, originPatterns []string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{OriginPatterns: originPatterns}
	if slices.Contains(originPatterns, "*") {
		opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		feed := r.PathValue("username")

		p := principal(r, verifier)
		if err := authz.Check(p, authz.SelfOrAdmin, feed); err != nil {
			middleware.WriteUnauthorized(w)
			return
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			hub.logger.Warn("ws accept failed", "feed", feed, "error", err)
			return
		}

		client := NewClient(hub, conn, feed, p.Username)
		if !hub.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}

func principal(r *http.Request, verifier middleware.TokenVerifier) *domain.Principal {
	token := r.URL.Query().Get("token")
	if token == "" {
		return middleware.PrincipalFrom(r.Context())
	}
	p, err := verifier.Verify(token)
	if err != nil {
		return nil
	}
	return p
}
