package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

const (
	collectionUsers = "users"
	watchBuffer     = 64
)

// UserStore implements ports.UserStore on the users collection. Notifications
// come from a change stream, so the deployment must be a replica set.
type UserStore struct {
	col *mongo.Collection
	log zerolog.Logger
}

func NewUserStore(db *mongo.Database, log zerolog.Logger) *UserStore {
	return &UserStore{col: db.Collection(collectionUsers), log: log}
}

func (s *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Set replaces or creates the document keyed by user.ID.
func (s *UserStore) Set(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

func (s *UserStore) Update(ctx context.Context, id string, patch domain.UserPatch) error {
	set := patchDocument(patch)
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Push inserts user under a fresh time-ordered key.
func (s *UserStore) Push(ctx context.Context, user *domain.User) (string, error) {
	key, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *user
	doc.ID = key.String()
	if _, err := s.col.InsertOne(ctx, &doc); err != nil {
		return "", fmt.Errorf("push user: %w", err)
	}
	return doc.ID, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns users in creation order.
func (s *UserStore) List(ctx context.Context, limit int) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *domain.User `bson:"fullDocument"`
}

// Watch opens a change stream on the collection. Updates carry the full
// document as of the lookup.
func (s *UserStore) Watch(ctx context.Context) (<-chan domain.Change, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := s.col.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, fmt.Errorf("watch users: %w", err)
	}

	out := make(chan domain.Change, watchBuffer)
	go func() {
		defer close(out)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()
			_ = cs.Close(closeCtx)
		}()

		for cs.Next(ctx) {
			var ev changeEvent
			if err := cs.Decode(&ev); err != nil {
				s.log.Warn().Err(err).Msg("undecodable change event")
				continue
			}
			ch, ok := toChange(ev)
			if !ok {
				continue
			}
			select {
			case out <- ch:
			case <-ctx.Done():
				return
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("users change stream ended")
		}
	}()
	return out, nil
}

func toChange(ev changeEvent) (domain.Change, bool) {
	id := ev.DocumentKey.ID
	if id == "" {
		return domain.Change{}, false
	}
	switch ev.OperationType {
	case "insert":
		if ev.FullDocument == nil {
			return domain.Change{}, false
		}
		return domain.Change{Kind: domain.ChangeInsert, ID: id, User: ev.FullDocument}, true
	case "update", "replace":
		// The document may have been deleted before the lookup ran.
		if ev.FullDocument == nil {
			return domain.Change{}, false
		}
		return domain.Change{Kind: domain.ChangeUpdate, ID: id, User: ev.FullDocument}, true
	case "delete":
		return domain.Change{Kind: domain.ChangeDelete, ID: id}, true
	}
	return domain.Change{}, false
}

func patchDocument(p domain.UserPatch) bson.M {
	set := bson.M{}
	if p.DisplayName != nil {
		set["display_name"] = *p.DisplayName
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.LastLogin != nil {
		set["last_login"] = p.LastLogin.UTC()
	}
	if p.LoginMethod != nil {
		set["login_method"] = *p.LoginMethod
	}
	if p.UpdatedAt != nil {
		set["updated_at"] = p.UpdatedAt.UTC()
	}
	if p.UpdatedBy != nil {
		set["updated_by"] = *p.UpdatedBy
	}
	if p.Version != nil {
		set["version"] = *p.Version
	}
	return set
}

// EnsureIndexes creates the indexes List and the email lookups rely on.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}
