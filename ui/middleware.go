package ui

import (
	"log"
	"net/http"

	"bmidash/domain/core"
	"bmidash/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "bmidash_session"
	sessionKey    = "session"
)

// withSession attaches the caller's session state to the context, starting a new
// session (and setting the cookie) when the request carries no known id
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var requested core.ID
		if raw, err := c.Cookie(sessionCookie); err == nil {
			requested, _ = core.ParseID(raw)
		}

		id, state, created := s.sessions.Resolve(requested)
		if created {
			log.Printf("[Session] Started session %s", id.Short())
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id.String(), 0, "/", "", s.secure, true)
		}

		c.Set(sessionKey, state)
		c.Next()
	}
}

func sessionState(c *gin.Context) *session.State {
	if v, ok := c.Get(sessionKey); ok {
		if st, ok := v.(*session.State); ok {
			return st
		}
	}
	return session.NewState()
}
