package main

import (
	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/notehub/auth"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func newPageData(c echo.Context, title string) types.PageData {
	d := types.PageData{
		Title:   title,
		Theme:   currentTheme(c),
		Flashes: auth.PopFlashes(c),
	}
	if token, ok := c.Get(csrfContextKey).(string); ok {
		d.CSRF = token
	}
	if user, ok := auth.GetSessionUser(c); ok {
		d.WithUser(user)
	}
	return d
}

func flashError(c echo.Context, title, message string) {
	addFlash(c, types.Flash{Kind: types.FlashError, Title: title, Message: message})
}

func flashSuccess(c echo.Context, title, message string) {
	addFlash(c, types.Flash{Kind: types.FlashSuccess, Title: title, Message: message})
}

func addFlash(c echo.Context, f types.Flash) {
	if err := auth.AddFlash(c, f); err != nil {
		logrus.Error(errors.Wrap(err, "adding flash"))
	}
}

// redirectWithError queues an error notification and redirects.
func redirectWithError(c echo.Context, to, title, message string) error {
	flashError(c, title, message)
	return c.Redirect(302, to)
}
