package main

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/oliverisaac/notehub/auth"
	notehubmcp "github.com/oliverisaac/notehub/mcp"
	"github.com/oliverisaac/notehub/notes"
	"github.com/oliverisaac/notehub/static"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
)

const (
	mcpPath        = "/mcp"
	csrfField      = "_csrf"
	csrfContextKey = "csrf"
)

type serverOptions struct {
	auth []auth.Option
}

type serverOption func(*serverOptions)

func withAuthOptions(opts ...auth.Option) serverOption {
	return func(o *serverOptions) {
		o.auth = append(o.auth, opts...)
	}
}

func newServer(cfg types.Config, st store.Store, opts ...serverOption) (*echo.Echo, error) {
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	renderer, err := newTemplate()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = httpErrorHandler

	e.StaticFS("/static", static.FS)

	e.Use(middleware.Recover())

	e.Use(middleware.Secure())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "id=${id}, method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == mcpPath
		},
		TokenLookup:    "form:" + csrfField + ",header:" + echo.HeaderXCSRFToken,
		ContextKey:     csrfContextKey,
		CookieName:     csrfField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	provider := auth.NewProvider(st, cfg, o.auth...)
	e.Use(session.Middleware(auth.NewCookieStore(cfg)))
	e.Use(provider.Middleware())

	md := notes.NewRenderer()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Pages
	e.GET(auth.LandingPath, homePageHandler(), auth.RedirectIfSignedIn)
	e.POST("/theme", toggleTheme())

	// Auth
	e.GET(auth.LoginPath, signIn(), auth.RedirectIfSignedIn)
	e.POST(auth.LoginPath, signInWithLoginAndPassword(provider), auth.RedirectIfSignedIn)
	e.GET("/register", signUp(cfg), auth.RedirectIfSignedIn)
	e.POST("/register", signUpWithLoginAndPassword(provider), auth.RedirectIfSignedIn)
	e.POST("/logout", signOut(provider))

	// Signed in
	e.GET(auth.DashboardPath, dashboardPageHandler(st), auth.RequireUser)
	e.GET(notesPath, notesPageHandler(st), auth.RequireUser)
	e.GET(notesPath+"/new", newNotePage(), auth.RequireUser)
	e.POST(notesPath, createNote(st), auth.RequireUser)
	e.GET(notesPath+"/:id", notePageHandler(st, md), auth.RequireUser)
	e.GET(notesPath+"/:id/edit", editNotePage(st), auth.RequireUser)
	e.POST(notesPath+"/:id", updateNote(st), auth.RequireUser)
	e.GET(notesPath+"/:id/delete", deleteNotePage(st), auth.RequireUser)
	e.POST(notesPath+"/:id/delete", deleteNote(st), auth.RequireUser)

	if cfg.MCPEnabled() {
		mountMCP(e, cfg, st)
	}

	return e, nil
}

// mountMCP serves the read-only note tools behind a bearer token.
func mountMCP(e *echo.Echo, cfg types.Config, st store.Store) {
	handler := echo.WrapHandler(server.NewStreamableHTTPServer(notehubmcp.NewServer(st)))
	keyAuth := middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
		return subtle.ConstantTimeCompare([]byte(key), []byte(cfg.MCPToken)) == 1, nil
	})
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		e.Add(method, mcpPath, handler, keyAuth)
	}
}
