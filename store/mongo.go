package store

import (
	"context"
	"time"

	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo keeps users and notes in two collections. Timestamps are truncated
// to milliseconds, the precision BSON dates keep.
type Mongo struct {
	client *mongo.Client
	users  *mongo.Collection
	notes  *mongo.Collection
	now    clock
}

func ConnectMongo(ctx context.Context, uri, dbName string, opts ...Option) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}

	s := NewMongo(client.Database(dbName), opts...)
	s.client = client
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func NewMongo(db *mongo.Database, opts ...Option) *Mongo {
	o := buildOptions(opts)
	now := o.now
	return &Mongo{
		users: db.Collection("users"),
		notes: db.Collection("notes"),
		now: func() time.Time {
			return now().UTC().Truncate(time.Millisecond)
		},
	}
}

func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create user indexes")
	}

	_, err = s.notes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "create note indexes")
	}
	return nil
}

func (s *Mongo) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

func (s *Mongo) CreateUser(ctx context.Context, u *types.User) error {
	prepareNewUser(u, s.now())
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(types.ErrDuplicateLoginID, "creating user %q", u.LoginID)
		}
		return errors.Wrapf(err, "creating user %q", u.LoginID)
	}
	return nil
}

func (s *Mongo) UserByLoginID(ctx context.Context, loginID string) (types.User, error) {
	return s.findUser(ctx, bson.M{"login_id": loginID}, loginID)
}

func (s *Mongo) UserByID(ctx context.Context, id string) (types.User, error) {
	return s.findUser(ctx, bson.M{"_id": id}, id)
}

func (s *Mongo) findUser(ctx context.Context, filter bson.M, key string) (types.User, error) {
	var user types.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.User{}, errors.Wrapf(types.ErrUserNotFound, "looking up user %q", key)
	}
	if err != nil {
		return types.User{}, errors.Wrapf(err, "looking up user %q", key)
	}
	return user, nil
}

func (s *Mongo) ListNotes(ctx context.Context, f NoteFilter) ([]types.Note, error) {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["user_id"] = f.OwnerID
	}
	dir := -1
	if f.Ascending {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{
		{Key: f.orderColumn(), Value: dir},
		{Key: "_id", Value: dir},
	})

	cursor, err := s.notes.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "listing notes owned by %q", f.OwnerID)
	}
	defer cursor.Close(ctx)

	ret := []types.Note{}
	if err := cursor.All(ctx, &ret); err != nil {
		return nil, errors.Wrap(err, "decode notes")
	}
	if err := s.joinOwners(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// joinOwners fills Note.User for every note with a single users query.
func (s *Mongo) joinOwners(ctx context.Context, list []types.Note) error {
	if len(list) == 0 {
		return nil
	}
	seen := map[string]bool{}
	ids := []string{}
	for _, n := range list {
		if !seen[n.UserID] {
			seen[n.UserID] = true
			ids = append(ids, n.UserID)
		}
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return errors.Wrap(err, "loading note owners")
	}
	defer cursor.Close(ctx)

	var users []types.User
	if err := cursor.All(ctx, &users); err != nil {
		return errors.Wrap(err, "decode note owners")
	}
	byID := make(map[string]types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range list {
		list[i].User = byID[list[i].UserID]
	}
	return nil
}

func (s *Mongo) NoteByID(ctx context.Context, id string) (types.Note, error) {
	var note types.Note
	err := s.notes.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.Note{}, errors.Wrapf(types.ErrNoteNotFound, "looking up note %q", id)
	}
	if err != nil {
		return types.Note{}, errors.Wrapf(err, "looking up note %q", id)
	}

	owner, err := s.UserByID(ctx, note.UserID)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return types.Note{}, err
	}
	note.User = owner
	return note, nil
}

func (s *Mongo) InsertNote(ctx context.Context, n *types.Note) error {
	if err := prepareNewNote(n, s.now()); err != nil {
		return err
	}
	if _, err := s.notes.InsertOne(ctx, n); err != nil {
		return errors.Wrap(err, "insert note")
	}
	return nil
}

func (s *Mongo) ownedNote(ctx context.Context, actorID, id string) (types.Note, error) {
	note, err := s.NoteByID(ctx, id)
	if err != nil {
		return types.Note{}, err
	}
	if note.UserID != actorID {
		return types.Note{}, errors.Wrapf(types.ErrAccessDenied, "user %q does not own note %q", actorID, id)
	}
	return note, nil
}

func (s *Mongo) UpdateNote(ctx context.Context, actorID, id string, u NoteUpdate) (types.Note, error) {
	note, err := s.ownedNote(ctx, actorID, id)
	if err != nil {
		return types.Note{}, err
	}
	next, err := u.apply(note)
	if err != nil {
		return types.Note{}, err
	}
	next.UpdatedAt = s.now.touch(note.CreatedAt)

	// Owner stays in the filter; the check above is not atomic with the write.
	result, err := s.notes.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": actorID},
		bson.M{"$set": bson.M{
			"title":      next.Title,
			"subject":    next.Subject,
			"content":    next.Content,
			"updated_at": next.UpdatedAt,
		}},
	)
	if err != nil {
		return types.Note{}, errors.Wrapf(err, "updating note %q", id)
	}
	if result.MatchedCount == 0 {
		return types.Note{}, errors.Wrapf(types.ErrNoteNotFound, "updating note %q", id)
	}
	return next, nil
}

func (s *Mongo) DeleteNote(ctx context.Context, actorID, id string) error {
	if _, err := s.ownedNote(ctx, actorID, id); err != nil {
		return err
	}
	result, err := s.notes.DeleteOne(ctx, bson.M{"_id": id, "user_id": actorID})
	if err != nil {
		return errors.Wrapf(err, "deleting note %q", id)
	}
	if result.DeletedCount == 0 {
		return errors.Wrapf(types.ErrNoteNotFound, "deleting note %q", id)
	}
	return nil
}
