package main

import (
	"net/http"

	goerrors "github.com/go-errors/errors"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// httpErrorHandler logs handler failures and renders the generic error page.
// Echo's own HTTP errors (404, 405, bad key auth) keep their status.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	title := "Something went wrong"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		title = http.StatusText(code)
	}

	if code >= http.StatusInternalServerError {
		logrus.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			logrus.Debug(goerrors.Wrap(err, 1).ErrorStack())
		}
	} else {
		logrus.Debugf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.Render(code, "error", newPageData(c, title))
	}
	if err != nil {
		logrus.Error(err)
	}
}
