package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

type ctxKey int

const sessionKey ctxKey = 0

// sessionFromContext returns the session stored by withSession. It is only
// valid inside handlers wrapped by that middleware.
func sessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionKey).(*models.Session)
	return session
}

// actorFor derives the assignment-layer actor from a session.
func actorFor(session *models.Session) services.Actor {
	return services.Actor{Ref: session.Username, Role: session.Role}
}

// withSession resolves the X-Session-Token header to a session and stores it
// in the request context. Missing or dead tokens end the request with 401.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.SessionTokenHeaderName)
		if token == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		session, err := s.sessions.Validate(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin is withSession plus an admin-role check.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFromContext(r.Context()).IsAdmin() {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		next(w, r)
	})
}
