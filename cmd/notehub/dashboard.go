package main

import (
	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/notehub/auth"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func dashboardPageHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := auth.GetSessionUser(c)
		pageData := types.DashboardPageData{PageData: newPageData(c, "Dashboard")}

		userNotes, err := st.ListNotes(c.Request().Context(), store.NoteFilter{
			OwnerID: user.ID,
			OrderBy: store.OrderByUpdated,
		})
		if err != nil {
			err = errors.Wrapf(err, "Looking for notes owned by user %q", user.LoginID)
			logrus.Error(err)
			pageData.WithError(err)
		}
		pageData.Notes = userNotes

		return c.Render(200, "dashboard", pageData)
	}
}
