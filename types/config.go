package types

import (
	errs "errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

type Config struct {
	ListenAddr        string
	AllowSignup       bool
	AllowSignupLogins []string
	CookieSecret      []byte
	SecureCookies     bool
	Store             string
	DBPath            string
	MongoURI          string
	MongoDatabase     string
	MCPToken          string
	LogLevel          logrus.Level
}

func (c Config) SignupAllowed(loginID string) bool {
	if !c.AllowSignup {
		return false
	}
	if len(c.AllowSignupLogins) == 0 {
		return true
	}
	for _, l := range c.AllowSignupLogins {
		if strings.EqualFold(l, loginID) {
			return true
		}
	}
	return false
}

func (c Config) MCPEnabled() bool {
	return c.MCPToken != ""
}

func ConfigFromEnv() (Config, error) {
	ret := Config{}
	var retErr error
	var err error

	ret.ListenAddr = goli.DefaultEnv("NOTEHUB_LISTEN_ADDR", ":8080")

	ret.AllowSignup, err = strconv.ParseBool(goli.DefaultEnv("NOTEHUB_ALLOW_SIGNUP", "true"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing NOTEHUB_ALLOW_SIGNUP"))
	}

	for _, l := range strings.Split(os.Getenv("NOTEHUB_ALLOW_SIGNUP_LOGINS"), ",") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		ret.AllowSignupLogins = append(ret.AllowSignupLogins, l)
	}
	if len(ret.AllowSignupLogins) > 0 {
		logrus.Infof("Allowed signup logins: %v", ret.AllowSignupLogins)
	}

	cookieSecret, ok := os.LookupEnv("NOTEHUB_COOKIE_STORE_SECRET")
	if !ok || cookieSecret == "" {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTEHUB_COOKIE_STORE_SECRET"))
	} else {
		ret.CookieSecret = []byte(cookieSecret)
	}

	ret.SecureCookies, err = strconv.ParseBool(goli.DefaultEnv("NOTEHUB_SECURE_COOKIES", "false"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing NOTEHUB_SECURE_COOKIES"))
	}

	ret.Store = strings.ToLower(goli.DefaultEnv("NOTEHUB_STORE", StoreSQLite))
	switch ret.Store {
	case StoreSQLite:
		ret.DBPath, ok = os.LookupEnv("NOTEHUB_DB_PATH")
		if !ok {
			retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTEHUB_DB_PATH"))
		} else if _, err := os.Stat(path.Dir(ret.DBPath)); err != nil {
			retErr = errs.Join(retErr, errors.Wrap(err, "Directory for NOTEHUB_DB_PATH must exist"))
		}
	case StoreMongo:
		ret.MongoURI, ok = os.LookupEnv("NOTEHUB_MONGO_URI")
		if !ok {
			retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTEHUB_MONGO_URI"))
		}
		ret.MongoDatabase = goli.DefaultEnv("NOTEHUB_MONGO_DATABASE", "notehub")
	default:
		retErr = errs.Join(retErr, fmt.Errorf("NOTEHUB_STORE must be %q or %q, got %q", StoreSQLite, StoreMongo, ret.Store))
	}

	ret.MCPToken = os.Getenv("NOTEHUB_MCP_TOKEN")

	ret.LogLevel, err = logrus.ParseLevel(goli.DefaultEnv("NOTEHUB_LOG_LEVEL", "info"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing NOTEHUB_LOG_LEVEL"))
	}

	return ret, retErr
}
