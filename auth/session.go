package auth

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SessionName = "notehub"
	userIDKey   = "user_id"
	contextKey  = "session-user"

	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	LandingPath   = "/"
)

func init() {
	gob.Register(types.Flash{})
}

// Session is the resolved identity for one request. It is set by
// Middleware before any handler runs, so a nil User always means anonymous.
type Session struct {
	User *types.User
}

func (s Session) SignedIn() bool {
	return s.User != nil && s.User.IsSet()
}

// NewCookieStore builds the session store used by session.Middleware.
func NewCookieStore(cfg types.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore(cfg.CookieSecret)
	store.Options = cookieOptions(cfg)
	return store
}

func cookieOptions(cfg types.Config) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 30,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		// A cookie signed with an old secret decodes to a fresh session.
		logrus.Debugf("Discarding unreadable session: %v", err)
	}
	if sess == nil {
		return nil, errors.Wrap(err, "loading session")
	}
	return sess, nil
}

// Middleware resolves the session cookie into a Session on the context.
func (p *Provider) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current := Session{}
			sess, err := getSession(c)
			if err != nil {
				return err
			}
			if id, ok := sess.Values[userIDKey].(string); ok && id != "" {
				user, err := p.store.UserByID(c.Request().Context(), id)
				if err == nil {
					current.User = &user
				} else if errors.Is(err, types.ErrUserNotFound) {
					logrus.Infof("Session references missing user %s", id)
				} else {
					return errors.Wrap(err, "resolving session user")
				}
			}
			c.Set(contextKey, current)
			return next(c)
		}
	}
}

func Current(c echo.Context) Session {
	if s, ok := c.Get(contextKey).(Session); ok {
		return s
	}
	return Session{}
}

func GetSessionUser(c echo.Context) (types.User, bool) {
	s := Current(c)
	if !s.SignedIn() {
		return types.User{}, false
	}
	logrus.Debugf("Found session user %s", s.User.LoginID)
	return *s.User, true
}

// StartSession stores the user id in the cookie and makes the user current
// for the rest of the request.
func (p *Provider) StartSession(c echo.Context, user types.User) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.Options = cookieOptions(p.cfg)
	sess.Values[userIDKey] = user.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return errors.Wrap(err, "saving session")
	}
	c.Set(contextKey, Session{User: &user})
	return nil
}

func (p *Provider) EndSession(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.Options = cookieOptions(p.cfg)
	sess.Options.MaxAge = -1
	delete(sess.Values, userIDKey)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return errors.Wrap(err, "ending session")
	}
	c.Set(contextKey, Session{})
	return nil
}

// RequireUser sends anonymous visitors to the login page.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !Current(c).SignedIn() {
			return c.Redirect(http.StatusFound, LoginPath)
		}
		return next(c)
	}
}

// RedirectIfSignedIn keeps signed-in users off the login and register pages.
func RedirectIfSignedIn(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Current(c).SignedIn() {
			return c.Redirect(http.StatusFound, DashboardPath)
		}
		return next(c)
	}
}

// AddFlash queues a one-shot notification shown on the next rendered page.
func AddFlash(c echo.Context, f types.Flash) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.AddFlash(f)
	return errors.Wrap(sess.Save(c.Request(), c.Response()), "saving flash")
}

// PopFlashes returns and clears the queued notifications.
func PopFlashes(c echo.Context) []types.Flash {
	sess, err := getSession(c)
	if err != nil {
		logrus.Error(err)
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logrus.Error(errors.Wrap(err, "clearing flashes"))
	}
	ret := make([]types.Flash, 0, len(raw))
	for _, r := range raw {
		if f, ok := r.(types.Flash); ok {
			ret = append(ret, f)
		}
	}
	return ret
}
