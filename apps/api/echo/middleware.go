package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

const sessionKey = "session"

// sessionMiddleware rejects requests made without an active session and puts the session in the context.
func sessionMiddleware(sessions *identity.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, ok := sessions.Active()
			if !ok {
				return errNotAuthenticated
			}
			ctx.Set(sessionKey, sess)
			return next(ctx)
		}
	}
}

// roleMiddleware must run after sessionMiddleware.
func roleMiddleware(roles ...identity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, ok := getContextSession(ctx)
			if !ok {
				return errNotAuthenticated
			}
			for _, role := range roles {
				if sess.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func getContextSession(ctx echo.Context) (identity.Session, bool) {
	sess, ok := ctx.Get(sessionKey).(identity.Session)
	return sess, ok
}
