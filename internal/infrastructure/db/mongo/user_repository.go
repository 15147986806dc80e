package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                       primitive.ObjectID  `bson:"_id,omitempty"`
	Name                     string              `bson:"name"`
	Email                    string              `bson:"email"`
	PasswordHash             string              `bson:"passwordHash"`
	Role                     string              `bson:"role"`
	IsEmailVerified          bool                `bson:"isEmailVerified"`
	EmailVerificationToken   string              `bson:"emailVerificationToken,omitempty"`
	EmailVerificationExpires time.Time           `bson:"emailVerificationExpires,omitempty"`
	ResetPasswordToken       string              `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires     time.Time           `bson:"resetPasswordExpires,omitempty"`
	ProfilePicture           string              `bson:"profilePicture,omitempty"`
	Organization             string              `bson:"organization,omitempty"`
	Position                 string              `bson:"position,omitempty"`
	Phone                    string              `bson:"phone,omitempty"`
	Address                  *domain.Address     `bson:"address,omitempty"`
	Preferences              *domain.Preferences `bson:"preferences,omitempty"`
	CreatedAt                time.Time           `bson:"createdAt"`
	UpdatedAt                time.Time           `bson:"updatedAt"`
}

func (u *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                       u.ID.Hex(),
		Name:                     u.Name,
		Email:                    u.Email,
		PasswordHash:             u.PasswordHash,
		Role:                     u.Role,
		IsEmailVerified:          u.IsEmailVerified,
		EmailVerificationToken:   u.EmailVerificationToken,
		EmailVerificationExpires: u.EmailVerificationExpires,
		ResetPasswordToken:       u.ResetPasswordToken,
		ResetPasswordExpires:     u.ResetPasswordExpires,
		ProfilePicture:           u.ProfilePicture,
		Organization:             u.Organization,
		Position:                 u.Position,
		Phone:                    u.Phone,
		Address:                  u.Address,
		Preferences:              u.Preferences,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:                     user.Name,
		Email:                    user.Email,
		PasswordHash:             user.PasswordHash,
		Role:                     user.Role,
		IsEmailVerified:          user.IsEmailVerified,
		EmailVerificationToken:   user.EmailVerificationToken,
		EmailVerificationExpires: user.EmailVerificationExpires,
		Organization:             user.Organization,
		Position:                 user.Position,
		Phone:                    user.Phone,
		Address:                  user.Address,
		Preferences:              user.Preferences,
		CreatedAt:                user.CreatedAt,
		UpdatedAt:                user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"emailVerificationToken":   token,
		"emailVerificationExpires": bson.M{"$gt": now},
	})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": bson.M{"$gt": now},
	})
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"isEmailVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"emailVerificationToken": "", "emailVerificationExpires": ""},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"resetPasswordToken":   tokenHash,
			"resetPasswordExpires": expires,
			"updatedAt":            time.Now().UTC(),
		},
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"passwordHash": passwordHash, "updatedAt": time.Now().UTC()},
	})
}

func (r *UserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"passwordHash": passwordHash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.ProfilePicture != nil {
		set["profilePicture"] = *input.ProfilePicture
	}
	if input.Organization != nil {
		set["organization"] = *input.Organization
	}
	if input.Position != nil {
		set["position"] = *input.Position
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Address != nil {
		set["address"] = input.Address
	}
	if input.Preferences != nil {
		set["preferences"] = input.Preferences
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()},
	})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, total, cur.Err()
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}
