package main

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

const (
	themeCookie = "theme"
	themeLight  = "light"
	themeDark   = "dark"
)

func currentTheme(c echo.Context) string {
	cookie, err := c.Cookie(themeCookie)
	if err != nil || cookie.Value != themeDark {
		return themeLight
	}
	return themeDark
}

func toggleTheme() echo.HandlerFunc {
	return func(c echo.Context) error {
		next := themeDark
		if currentTheme(c) == themeDark {
			next = themeLight
		}
		c.SetCookie(&http.Cookie{
			Name:     themeCookie,
			Value:    next,
			Path:     "/",
			MaxAge:   3600 * 24 * 365,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return c.Redirect(http.StatusFound, sameSiteReferer(c))
	}
}

// sameSiteReferer returns the referring path when it points back at this
// host, and the landing page otherwise.
func sameSiteReferer(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Host != c.Request().Host || ref.Path == "" {
		return "/"
	}
	return ref.RequestURI()
}
