package ui

import (
	"io/fs"
	"log"
	"net/http"

	"edadash/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "eda_session"
	sessionKey    = "session"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())

	staticFS, err := fs.Sub(s.files, "ui/static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// sessionMiddleware resolves the session named by the cookie, starting an
// unsaved one when the cookie is missing or unknown, and refreshes the cookie.
// Handlers that change state store the session.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(sessionCookie)
		sess := s.store.Load(cookie)
		if sess.ID.String() != cookie {
			log.Printf("[Session] Started session %s", sess.ID)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.ID.String(), 0, "/", "", false, true)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
