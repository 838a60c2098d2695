// Package auth is the session provider: it signs users up and in, keeps the
// signed-in user id in a cookie session and resolves it on every request.
package auth

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var loginIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

type SignInInput struct {
	LoginID  string `form:"login_id" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type SignUpInput struct {
	Username    string `form:"username" validate:"required,max=100"`
	LoginID     string `form:"login_id" validate:"required,max=64,loginid"`
	Password    string `form:"password" validate:"required,max=72"`
	DateOfBirth string `form:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

func (in SignUpInput) Values() map[string]string {
	return map[string]string{
		"username":      in.Username,
		"login_id":      in.LoginID,
		"date_of_birth": in.DateOfBirth,
	}
}

var fieldMessages = map[string]string{
	"required": "This field is required",
	"max":      "This value is too long",
	"loginid":  "Use letters, digits, dots, dashes or underscores only",
	"datetime": "Use the format YYYY-MM-DD",
}

type Provider struct {
	store    store.Store
	cfg      types.Config
	validate *validator.Validate
	cost     int
	now      func() time.Time
}

type Option func(*Provider)

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) {
		p.cost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

func NewProvider(st store.Store, cfg types.Config, opts ...Option) *Provider {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	if err := v.RegisterValidation("loginid", func(fl validator.FieldLevel) bool {
		return loginIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		logrus.Fatal(errors.Wrap(err, "registering loginid validation"))
	}

	p := &Provider{
		store:    st,
		cfg:      cfg,
		validate: v,
		cost:     10,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) check(in any) error {
	err := p.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validating input")
	}
	verr := types.NewValidationError()
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "This value is invalid"
		}
		verr.Add(fe.Field(), msg)
	}
	return verr
}

// SignIn checks the credentials. Unknown login ids and wrong passwords both
// fail with ErrInvalidCredentials.
func (p *Provider) SignIn(ctx context.Context, in SignInInput) (types.User, error) {
	in.LoginID = strings.TrimSpace(in.LoginID)
	if err := p.check(in); err != nil {
		return types.User{}, err
	}

	user, err := p.store.UserByLoginID(ctx, in.LoginID)
	if errors.Is(err, types.ErrUserNotFound) {
		logrus.Infof("Sign in attempt for unknown login %q", in.LoginID)
		return types.User{}, types.ErrInvalidCredentials
	}
	if err != nil {
		return types.User{}, errors.Wrap(err, "signing in")
	}

	if compareErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); compareErr != nil {
		logrus.Infof("Wrong password for login %q", in.LoginID)
		return types.User{}, types.ErrInvalidCredentials
	}
	return user, nil
}

// SignUp creates the account. The caller starts the session.
func (p *Provider) SignUp(ctx context.Context, in SignUpInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.LoginID = strings.TrimSpace(in.LoginID)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	if err := p.check(in); err != nil {
		return types.User{}, err
	}

	if len(in.Password) > maxPasswordBytes {
		verr := types.NewValidationError()
		verr.Add("password", fieldMessages["max"])
		return types.User{}, verr
	}

	dob, err := time.Parse(types.DateLayout, in.DateOfBirth)
	if err != nil {
		verr := types.NewValidationError()
		verr.Add("date_of_birth", fieldMessages["datetime"])
		return types.User{}, verr
	}
	if dob.After(p.now()) {
		verr := types.NewValidationError()
		verr.Add("date_of_birth", "Date of birth cannot be in the future")
		return types.User{}, verr
	}

	if !p.cfg.SignupAllowed(in.LoginID) {
		return types.User{}, types.ErrSignupClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return types.User{}, errors.Wrap(err, "hashing sign up password")
	}

	user := types.User{
		Username:    in.Username,
		LoginID:     in.LoginID,
		Password:    string(hash),
		DateOfBirth: dob,
	}
	if err := p.store.CreateUser(ctx, &user); err != nil {
		return types.User{}, err
	}
	logrus.Infof("Registered user %q", user.LoginID)
	return user, nil
}
