package store

import (
	"context"
	"time"

	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Gorm struct {
	db  *gorm.DB
	now clock
}

type Option func(*storeOptions)

type storeOptions struct {
	now clock
}

// WithClock replaces time.Now for timestamps written by the store.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		o.now = now
	}
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func OpenSQLite(path string, opts ...Option) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database %q", path)
	}
	return NewGorm(db, opts...)
}

// NewGorm migrates the schema on db and returns a store over it.
func NewGorm(db *gorm.DB, opts ...Option) (*Gorm, error) {
	gormTables := []any{
		&types.User{},
		&types.Note{},
	}
	for _, t := range gormTables {
		if err := db.AutoMigrate(t); err != nil {
			return nil, errors.Wrap(err, "Failed to migrate")
		}
	}
	o := buildOptions(opts)
	return &Gorm{db: db, now: o.now}, nil
}

func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "getting sql handle")
	}
	return sqlDB.Close()
}

func (s *Gorm) userExists(ctx context.Context, loginID string) bool {
	var user types.User
	err := s.db.WithContext(ctx).First(&user, "login_id = ?", loginID).Error
	return !errors.Is(err, gorm.ErrRecordNotFound)
}

func (s *Gorm) CreateUser(ctx context.Context, u *types.User) error {
	if s.userExists(ctx, u.LoginID) {
		return errors.Wrapf(types.ErrDuplicateLoginID, "creating user %q", u.LoginID)
	}
	prepareNewUser(u, s.now())
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Wrapf(types.ErrDuplicateLoginID, "creating user %q", u.LoginID)
		}
		return errors.Wrapf(err, "creating user %q", u.LoginID)
	}
	return nil
}

func (s *Gorm) UserByLoginID(ctx context.Context, loginID string) (types.User, error) {
	return s.findUser(ctx, "login_id = ?", loginID)
}

func (s *Gorm) UserByID(ctx context.Context, id string) (types.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Gorm) findUser(ctx context.Context, query string, arg string) (types.User, error) {
	var user types.User
	err := s.db.WithContext(ctx).First(&user, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.User{}, errors.Wrapf(types.ErrUserNotFound, "looking up user %q", arg)
	}
	if err != nil {
		return types.User{}, errors.Wrapf(err, "looking up user %q", arg)
	}
	return user, nil
}

func (s *Gorm) ListNotes(ctx context.Context, f NoteFilter) ([]types.Note, error) {
	ret := []types.Note{}
	desc := !f.Ascending
	q := s.db.WithContext(ctx).Preload("User")
	if f.OwnerID != "" {
		q = q.Where("user_id = ?", f.OwnerID)
	}
	result := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: f.orderColumn()}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Find(&ret)
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "listing notes owned by %q", f.OwnerID)
	}
	return ret, nil
}

func (s *Gorm) NoteByID(ctx context.Context, id string) (types.Note, error) {
	return noteByID(s.db.WithContext(ctx), id)
}

func noteByID(db *gorm.DB, id string) (types.Note, error) {
	var note types.Note
	err := db.Preload("User").First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Note{}, errors.Wrapf(types.ErrNoteNotFound, "looking up note %q", id)
	}
	if err != nil {
		return types.Note{}, errors.Wrapf(err, "looking up note %q", id)
	}
	return note, nil
}

func (s *Gorm) InsertNote(ctx context.Context, n *types.Note) error {
	if err := prepareNewNote(n, s.now()); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error; err != nil {
		return errors.Wrap(err, "Saving note to db")
	}
	logrus.Debugf("Created note %s for user %s", n.ID, n.UserID)
	return nil
}

// ownedNote loads the note and checks that actorID owns it.
func ownedNote(tx *gorm.DB, actorID, id string) (types.Note, error) {
	note, err := noteByID(tx, id)
	if err != nil {
		return types.Note{}, err
	}
	if note.UserID != actorID {
		return types.Note{}, errors.Wrapf(types.ErrAccessDenied, "user %q does not own note %q", actorID, id)
	}
	return note, nil
}

func (s *Gorm) UpdateNote(ctx context.Context, actorID, id string, u NoteUpdate) (types.Note, error) {
	var updated types.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := ownedNote(tx, actorID, id)
		if err != nil {
			return err
		}
		next, err := u.apply(note)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now.touch(note.CreatedAt)
		err = tx.Model(&types.Note{}).Where("id = ?", id).Updates(map[string]any{
			"title":      next.Title,
			"subject":    next.Subject,
			"content":    next.Content,
			"updated_at": next.UpdatedAt,
		}).Error
		if err != nil {
			return errors.Wrapf(err, "updating note %q", id)
		}
		updated, err = noteByID(tx, id)
		return err
	})
	if err != nil {
		return types.Note{}, err
	}
	return updated, nil
}

func (s *Gorm) DeleteNote(ctx context.Context, actorID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedNote(tx, actorID, id); err != nil {
			return err
		}
		if err := tx.Delete(&types.Note{}, "id = ?", id).Error; err != nil {
			return errors.Wrapf(err, "deleting note %q", id)
		}
		return nil
	})
}
