package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/notehub/auth"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func authForm(c echo.Context, title string, form types.FormData) types.FormPageData {
	return types.FormPageData{PageData: newPageData(c, title), Form: form}
}

func validationForm(err error, values map[string]string) (types.FormData, bool) {
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		return types.FormData{}, false
	}
	form := types.NewFormData()
	form.Values = values
	for field, msg := range verr.Fields {
		form.Errors[field] = msg
	}
	form.Errors["general"] = "Please fill in all fields."
	return form, true
}

func signIn() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(200, "login", authForm(c, "Login", types.NewFormData()))
	}
}

func signInWithLoginAndPassword(p *auth.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		in := auth.SignInInput{
			LoginID:  c.FormValue("login_id"),
			Password: c.FormValue("password"),
		}
		values := map[string]string{"login_id": in.LoginID}

		user, err := p.SignIn(c.Request().Context(), in)
		if form, ok := validationForm(err, values); ok {
			form.Errors["general"] = "Please enter both User ID and password."
			return c.Render(422, "login", authForm(c, "Login", form))
		}
		if errors.Is(err, types.ErrInvalidCredentials) {
			form := types.NewFormData()
			form.Values = values
			form.Errors["general"] = "Invalid User ID or password."
			return c.Render(422, "login", authForm(c, "Login", form))
		}
		if err != nil {
			logrus.Error(errors.Wrap(err, "signing in"))
			form := types.NewFormData()
			form.Values = values
			form.Errors["general"] = "Oops! It appears we have had an error"
			return c.Render(500, "login", authForm(c, "Login", form))
		}

		if err := p.StartSession(c, user); err != nil {
			return err
		}
		flashSuccess(c, "Welcome back!", "Successfully logged in.")
		return c.Redirect(http.StatusFound, auth.DashboardPath)
	}
}

func signUp(cfg types.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		form := types.NewFormData()
		if !cfg.AllowSignup {
			form.Errors["general"] = "Registration is currently closed."
		}
		return c.Render(200, "register", authForm(c, "Register", form))
	}
}

func signUpWithLoginAndPassword(p *auth.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		in := auth.SignUpInput{
			Username:    c.FormValue("username"),
			LoginID:     c.FormValue("login_id"),
			Password:    c.FormValue("password"),
			DateOfBirth: c.FormValue("date_of_birth"),
		}

		user, err := p.SignUp(c.Request().Context(), in)
		if form, ok := validationForm(err, in.Values()); ok {
			return c.Render(422, "register", authForm(c, "Register", form))
		}
		if err != nil {
			form := types.NewFormData()
			form.Values = in.Values()
			status := 422
			switch {
			case errors.Is(err, types.ErrDuplicateLoginID):
				form.Errors["login_id"] = "Oops! That User ID is already taken"
				form.Errors["general"] = "Could not create account. User ID might already exist."
			case errors.Is(err, types.ErrSignupClosed):
				status = http.StatusForbidden
				form.Errors["general"] = "Registration is currently closed."
			default:
				logrus.Error(errors.Wrap(err, "signing up"))
				status = 500
				form.Errors["general"] = "Oops! It appears we have had an error"
			}
			return c.Render(status, "register", authForm(c, "Register", form))
		}

		if err := p.StartSession(c, user); err != nil {
			return err
		}
		flashSuccess(c, "Success!", "Account created successfully.")
		return c.Redirect(http.StatusFound, auth.DashboardPath)
	}
}

// signOut always lands on the public home page.
func signOut(p *auth.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := p.EndSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, auth.LandingPath)
	}
}
