package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// OwnerContextKey holds the browser's owner token for downstream handlers.
	OwnerContextKey = "owner"

	ownerSessionName = "signup-owner"
	ownerSessionKey  = "token"
)

// Owner identifies the browser behind a request. A random token is kept in
// a signed cookie session and issued on the first visit. Page sessions are
// bound to this token so one browser cannot drive another's page.
func Owner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(ownerSessionName, c)
		if err != nil {
			// A cookie signed with an old secret yields an error together with
			// a fresh session, which is fine to reuse.
			FromContext(c.Request().Context()).Debug("Owner session reset", "error", err)
		}
		if sess == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable")
		}

		token, _ := sess.Values[ownerSessionKey].(string)
		if token == "" {
			token = uuid.NewString()
			sess.Values[ownerSessionKey] = token
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				slog.Error("Failed to save owner session", "error", err)
				return err
			}
		}

		c.Set(OwnerContextKey, token)
		return next(c)
	}
}

// OwnerFrom returns the owner token set by Owner, or "" outside it.
func OwnerFrom(c echo.Context) string {
	token, _ := c.Get(OwnerContextKey).(string)
	return token
}
