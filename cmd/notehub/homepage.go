package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// homePageHandler is the public landing page. Signed-in users are sent to
// the dashboard by auth.RedirectIfSignedIn before it runs.
func homePageHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		logrus.Debugf("Generating anonymous homepage")
		return c.Render(200, "home", newPageData(c, ""))
	}
}
