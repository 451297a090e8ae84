package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"pennywise/internal/services"
)

// SessionCookie is the name of the cookie carrying the opaque session id.
const SessionCookie = "session_id"

// SessionGate verifies the server-side session referenced by the request
// cookie and sets the authenticated user in the context. Requests without
// a valid session are redirected to the login page, preserving the
// originally requested path for the post-login redirect.
func SessionGate(sessions services.SessionServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			redirectToLogin(c)
			return
		}

		session, err := sessions.Lookup(sid)
		if err != nil {
			// Stale cookie: clear it before bouncing to login.
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			redirectToLogin(c)
			return
		}

		c.Set("userID", session.UserID)
		c.Set("sessionID", session.ID)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, "/login?next="+next)
	c.Abort()
}
