package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"edumate/internal/app"
	"edumate/internal/pkg/jwtutil"
	"edumate/internal/transport/http/response"
)

const ContextSessionKey = "study_session"

// RequireSession resolves the bearer session token to a live study session.
func RequireSession(secret string, sessions *app.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired session token")
			c.Abort()
			return
		}

		session, err := sessions.Get(claims.SessionID)
		if err != nil {
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, "session expired, start a new one")
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) (*app.StudySession, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*app.StudySession)
	return session, ok
}
