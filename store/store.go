// Package store persists users and notes. Every mutating note call takes the
// acting user's id and refuses to touch notes owned by someone else, so the
// ownership rule holds no matter which handler issued the call.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/oliverisaac/notehub/notes"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
)

const (
	OrderByCreated = "created_at"
	OrderByUpdated = "updated_at"
)

type NoteFilter struct {
	OwnerID   string
	OrderBy   string
	Ascending bool
}

func (f NoteFilter) orderColumn() string {
	if f.OrderBy == OrderByUpdated {
		return OrderByUpdated
	}
	return OrderByCreated
}

// NoteUpdate lists the fields to change. Nil fields are left alone.
type NoteUpdate struct {
	Title   *string
	Subject *string
	Content *string
}

func UpdateFromInput(in notes.Input) NoteUpdate {
	in = in.Normalize()
	return NoteUpdate{Title: &in.Title, Subject: &in.Subject, Content: &in.Content}
}

// apply merges u into n and validates the result.
func (u NoteUpdate) apply(n types.Note) (types.Note, error) {
	if u.Title != nil {
		n.Title = strings.TrimSpace(*u.Title)
	}
	if u.Subject != nil {
		n.Subject = strings.TrimSpace(*u.Subject)
	}
	if u.Content != nil {
		n.Content = strings.TrimSpace(*u.Content)
	}
	return n, notes.InputFromNote(n).Validate()
}

type Store interface {
	CreateUser(ctx context.Context, u *types.User) error
	UserByLoginID(ctx context.Context, loginID string) (types.User, error)
	UserByID(ctx context.Context, id string) (types.User, error)

	ListNotes(ctx context.Context, f NoteFilter) ([]types.Note, error)
	NoteByID(ctx context.Context, id string) (types.Note, error)
	InsertNote(ctx context.Context, n *types.Note) error
	UpdateNote(ctx context.Context, actorID, id string, u NoteUpdate) (types.Note, error)
	DeleteNote(ctx context.Context, actorID, id string) error

	Close() error
}

// Open connects the backend selected by cfg.
func Open(ctx context.Context, cfg types.Config) (Store, error) {
	switch cfg.Store {
	case types.StoreMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case types.StoreSQLite, "":
		return OpenSQLite(cfg.DBPath)
	}
	return nil, errors.Errorf("unknown store %q", cfg.Store)
}

type clock func() time.Time

// touch returns the next updated_at for a note, never earlier than its
// creation time even if the wall clock stepped back.
func (now clock) touch(createdAt time.Time) time.Time {
	t := now()
	if t.Before(createdAt) {
		return createdAt
	}
	return t
}

func prepareNewNote(n *types.Note, now time.Time) error {
	in := notes.InputFromNote(*n).Normalize()
	if err := in.Validate(); err != nil {
		return err
	}
	if n.UserID == "" {
		return errors.Wrap(types.ErrAccessDenied, "note has no owner")
	}
	if n.ID == "" {
		n.ID = types.NewID()
	}
	n.Title, n.Subject, n.Content = in.Title, in.Subject, in.Content
	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

func prepareNewUser(u *types.User, now time.Time) {
	if u.ID == "" {
		u.ID = types.NewID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
}
