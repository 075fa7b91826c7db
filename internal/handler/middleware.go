package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func AlreadyLoggedIn(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if getCtxSession(c) != nil {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
		return next(c)
	}
}

func IsAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if getCtxSession(c) == nil {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// RequireManager admits manager level sessions, including admins.
func RequireManager(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !getCtxSession(c).IsManager() {
			return newError(c, nil,
				http.StatusForbidden,
				"Access denied. Manager privileges required.",
			)
		}
		return next(c)
	}
}

// RequireManagerOnly admits manager level sessions holding the manager role.
func RequireManagerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !getCtxSession(c).IsManagerOnly() {
			return newError(c, nil,
				http.StatusForbidden,
				"Access denied. This page is only accessible to Managers.",
			)
		}
		return next(c)
	}
}
