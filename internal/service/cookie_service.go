package service

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/haatos/resource-hub/internal"
	"github.com/labstack/echo/v4"
)

type CookieService struct {
	s       *securecookie.SecureCookie
	domain  string
	secure  bool
	expires time.Duration
}

func NewCookieService(
	hashKey, blockKey []byte,
	domain string,
	secure bool,
	expires time.Duration,
) *CookieService {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(expires.Seconds()))
	return &CookieService{
		s:       sc,
		domain:  domain,
		secure:  secure,
		expires: expires,
	}
}

func (cs *CookieService) GetSessionID(c echo.Context) (string, error) {
	cookie, err := c.Cookie(internal.SessionCookie)
	if err != nil {
		return "", err
	}
	values := make(map[string]string)
	if err := cs.s.Decode(internal.SessionCookie, cookie.Value, &values); err != nil {
		return "", err
	}
	return values["session_id"], nil
}

func (cs *CookieService) SetSessionCookie(c echo.Context, sessionID string) error {
	encoded, err := cs.s.Encode(
		internal.SessionCookie,
		map[string]string{"session_id": sessionID},
	)
	if err != nil {
		return err
	}
	c.SetCookie(cs.cookie(encoded, time.Now().UTC().Add(cs.expires)))
	return nil
}

func (cs *CookieService) RemoveSessionCookie(c echo.Context) {
	cookie := cs.cookie("", time.Unix(0, 0).UTC())
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

func (cs *CookieService) cookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     internal.SessionCookie,
		Value:    value,
		Path:     "/",
		Secure:   cs.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
	if cs.domain != "localhost" {
		cookie.Domain = cs.domain
	}
	return cookie
}
