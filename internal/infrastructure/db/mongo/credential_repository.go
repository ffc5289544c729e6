package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

const credentialCollection = "credentials"

// CredentialRepository implements ports.CredentialRepository. Emails are
// stored lowercased behind a unique index.
type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialCollection)}
}

type mongoCredential struct {
	UID              string `bson:"_id"`
	Email            string `bson:"email"`
	PasswordHash     string `bson:"password_hash,omitempty"`
	DisplayName      string `bson:"display_name,omitempty"`
	PhotoURL         string `bson:"photo_url,omitempty"`
	Provider         string `bson:"provider"`
	EmailVerified    bool   `bson:"email_verified"`
	VerificationSent int64  `bson:"verification_sent,omitempty"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCredential{
		UID:           cred.UID,
		Email:         normalizeEmail(cred.Email),
		PasswordHash:  cred.PasswordHash,
		DisplayName:   cred.DisplayName,
		PhotoURL:      cred.PhotoURL,
		Provider:      cred.Provider,
		EmailVerified: cred.EmailVerified,
		CreatedAt:     cred.CreatedAt.Unix(),
		UpdatedAt:     cred.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return fromMongoCredential(doc), nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *CredentialRepository) FindByUID(ctx context.Context, uid string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"_id": uid})
}

func (r *CredentialRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCredential
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return fromMongoCredential(mc), nil
}

func (r *CredentialRepository) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	set := bson.M{
		"display_name": displayName,
		"updated_at":   time.Now().Unix(),
	}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}
	return r.update(ctx, uid, set)
}

func (r *CredentialRepository) MarkVerificationSent(ctx context.Context, uid string) error {
	return r.update(ctx, uid, bson.M{"verification_sent": time.Now().Unix()})
}

func (r *CredentialRepository) update(ctx context.Context, uid string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func fromMongoCredential(mc mongoCredential) *domain.Credential {
	return &domain.Credential{
		UID:              mc.UID,
		Email:            mc.Email,
		PasswordHash:     mc.PasswordHash,
		DisplayName:      mc.DisplayName,
		PhotoURL:         mc.PhotoURL,
		Provider:         mc.Provider,
		EmailVerified:    mc.EmailVerified,
		VerificationSent: unixToTime(mc.VerificationSent),
		CreatedAt:        unixToTime(mc.CreatedAt),
		UpdatedAt:        unixToTime(mc.UpdatedAt),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
