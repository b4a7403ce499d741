package databases

// go generate: mockery --name UserDatabase

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diulnf/lostfound-api/models"
)

const userCollectionName = "users"

// UserDatabase contains the methods to use with the user database
type UserDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.User, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.User, error)
	ResolveOrCreate(ctx context.Context, email string, profile models.UserProfile) (*models.User, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (c *userDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.User, error) {
	user := &models.User{}
	err := c.db.Collection(userCollectionName).FindOne(ctx, filter, opts...).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (c *userDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.User, error) {
	var users []models.User
	curr, err := c.db.Collection(userCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ResolveOrCreate finds the user by lowercase-normalized email, creating a
// minimal profile with role "user" when absent. The $setOnInsert upsert makes
// repeat calls idempotent and never overwrites an existing record.
func (c *userDatabase) ResolveOrCreate(ctx context.Context, email string, profile models.UserProfile) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	now := primitive.NewDateTimeFromTime(time.Now())

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	user := &models.User{}
	err := c.db.Collection(userCollectionName).FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$setOnInsert": bson.M{
			"email":        email,
			"name":         profile.Name,
			"universityId": profile.UniversityID,
			"phone":        profile.Phone,
			"department":   profile.Department,
			"role":         "user",
			"createdAt":    now,
			"updatedAt":    now,
		}},
		opts,
	).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (c *userDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(userCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}
