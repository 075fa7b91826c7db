package handler

import (
	"github.com/haatos/resource-hub/internal/store"
	"github.com/labstack/echo/v4"
)

const ctxSessionKey = "session"

// getCtxSession returns the session snapshot resolved for this request, or
// nil for anonymous requests.
func getCtxSession(c echo.Context) *store.AuthSession {
	if as, ok := c.Get(ctxSessionKey).(*store.AuthSession); ok {
		return as
	}
	return nil
}

func setCtxSession(c echo.Context, as *store.AuthSession) {
	c.Set(ctxSessionKey, as)
}
