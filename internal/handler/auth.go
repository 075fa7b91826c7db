package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/haatos/resource-hub/internal/service"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/haatos/resource-hub/internal/views"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type AuthCookieServicer interface {
	GetSessionID(echo.Context) (string, error)
	SetSessionCookie(echo.Context, string) error
	RemoveSessionCookie(echo.Context)
}

type UserAuthServicer interface {
	Register(ctx context.Context, r service.Registration) (*store.User, error)
	Login(ctx context.Context, username, password string) (*store.AuthSession, error)
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*store.AuthSession, error)
}

type AuthHandler struct {
	userService   UserAuthServicer
	cookieService AuthCookieServicer
}

func NewAuthHandler(
	userService UserAuthServicer,
	cookieService AuthCookieServicer,
) *AuthHandler {
	return &AuthHandler{userService, cookieService}
}

// SessionMiddleware resolves the session cookie into the session snapshot
// once per request. Unknown or expired sessions clear the cookie and the
// request continues anonymously.
func (h *AuthHandler) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID, err := h.cookieService.GetSessionID(c)
		if err != nil || sessionID == "" {
			return next(c)
		}

		as, err := h.userService.GetSession(c.Request().Context(), sessionID)
		if err != nil {
			if !errors.Is(err, service.ErrSessionExpired) {
				zerolog.Ctx(c.Request().Context()).Debug().Err(err).Msg("session lookup failed")
			}
			h.cookieService.RemoveSessionCookie(c)
			return next(c)
		}

		setCtxSession(c, as)
		return next(c)
	}
}

func (h *AuthHandler) GetIndexPage(c echo.Context) error {
	return render(c, views.IndexPage(getCtxSession(c)))
}

func (h *AuthHandler) GetLoginPage(c echo.Context) error {
	return render(c, views.LoginPage("", ""))
}

func (h *AuthHandler) GetRegisterPage(c echo.Context) error {
	return render(c, views.RegisterPage(views.RegisterForm{}, ""))
}

func (h *AuthHandler) PostLogin(c echo.Context) error {
	lp := new(LoginParams)
	if err := c.Bind(lp); err != nil {
		return renderStatus(c, http.StatusBadRequest,
			views.LoginPage("", "Invalid username or password"))
	}

	ctx := c.Request().Context()
	as, err := h.userService.Login(ctx, lp.Username, lp.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return renderStatus(c, http.StatusUnauthorized,
				views.LoginPage(lp.Username, "Invalid username or password"))
		case errors.Is(err, service.ErrHashFailure):
			zerolog.Ctx(ctx).Error().Err(err).Str("username", lp.Username).Msg("password comparison failed")
			return renderStatus(c, http.StatusInternalServerError,
				views.LoginPage(lp.Username, "An internal authentication error occurred."))
		default:
			zerolog.Ctx(ctx).Error().Err(err).Msg("login failed")
			return renderStatus(c, http.StatusInternalServerError,
				views.LoginPage(lp.Username, "Could not process login request."))
		}
	}

	if err := h.cookieService.SetSessionCookie(c, as.AuthSessionID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("unable to set session cookie")
		return renderStatus(c, http.StatusInternalServerError,
			views.LoginPage(lp.Username, "Could not process login request."))
	}

	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandler) PostRegister(c echo.Context) error {
	rp := new(RegisterParams)
	if err := c.Bind(rp); err != nil {
		return renderStatus(c, http.StatusBadRequest,
			views.RegisterPage(views.RegisterForm{}, "Please fill in all required fields."))
	}
	form := views.RegisterForm{
		Username: rp.Username,
		Email:    rp.Email,
		Phone:    rp.Phone,
		Level:    rp.Level,
	}

	ctx := c.Request().Context()
	_, err := h.userService.Register(ctx, service.Registration{
		Username: rp.Username,
		Password: rp.Password,
		Email:    rp.Email,
		Phone:    rp.Phone,
		Level:    store.Level(rp.Level),
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return renderStatus(c, http.StatusBadRequest, views.RegisterPage(form, ve.Message))
		case errors.Is(err, service.ErrConflict):
			return renderStatus(c, http.StatusConflict, views.RegisterPage(form,
				"Registration failed. That username or email may already be taken."))
		case errors.Is(err, service.ErrHashFailure):
			zerolog.Ctx(ctx).Error().Err(err).Msg("password hashing failed")
			return renderStatus(c, http.StatusInternalServerError, views.RegisterPage(form,
				"Server error during registration. Please try again."))
		default:
			zerolog.Ctx(ctx).Error().Err(err).Msg("registration failed")
			return renderStatus(c, http.StatusInternalServerError, views.RegisterPage(form,
				"Registration failed. That username or email may already be taken."))
		}
	}

	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) GetLogout(c echo.Context) error {
	if as := getCtxSession(c); as != nil {
		if err := h.userService.Logout(c.Request().Context(), as.AuthSessionID); err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("error destroying session")
		}
	}
	h.cookieService.RemoveSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
