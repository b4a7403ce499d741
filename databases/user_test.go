package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/databases/mocks"
	"github.com/diulnf/lostfound-api/models"
)

func TestUserDatabase_ResolveOrCreate_NormalizesEmail(t *testing.T) {
	mockDBHelper := &mocks.DatabaseHelper{}
	mockCollection := &mocks.CollectionHelper{}
	mockResult := &mocks.SingleResultHelper{}

	mockDBHelper.On("Collection", "users").Return(mockCollection)
	mockCollection.On("FindOneAndUpdate", mock.Anything,
		bson.M{"email": "jordan@diu.edu"},
		mock.Anything,
		mock.Anything,
	).Return(mockResult)
	mockResult.On("Decode", mock.Anything).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.Email = "jordan@diu.edu"
		user.Name = "Jordan Rahman"
		user.Role = "user"
	}).Return(nil)

	udb := databases.NewUserDatabase(mockDBHelper)

	user, err := udb.ResolveOrCreate(context.Background(), "  Jordan@DIU.edu ", models.UserProfile{Name: "Jordan Rahman"})
	assert.NoError(t, err)
	assert.Equal(t, "jordan@diu.edu", user.Email)
	assert.Equal(t, "user", user.Role)

	mockDBHelper.AssertExpectations(t)
	mockCollection.AssertExpectations(t)
	mockResult.AssertExpectations(t)
}

func TestUserDatabase_ResolveOrCreate_Error(t *testing.T) {
	mockDBHelper := &mocks.DatabaseHelper{}
	mockCollection := &mocks.CollectionHelper{}
	mockResult := &mocks.SingleResultHelper{}

	mockDBHelper.On("Collection", "users").Return(mockCollection)
	mockCollection.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(mockResult)
	mockResult.On("Decode", mock.Anything).Return(errors.New("mocked-error"))

	udb := databases.NewUserDatabase(mockDBHelper)

	_, err := udb.ResolveOrCreate(context.Background(), "jordan@diu.edu", models.UserProfile{})
	assert.Error(t, err)
}

func TestUserDatabase_FindOne(t *testing.T) {
	mockDBHelper := &mocks.DatabaseHelper{}
	mockCollection := &mocks.CollectionHelper{}
	mockResult := &mocks.SingleResultHelper{}

	mockDBHelper.On("Collection", "users").Return(mockCollection)
	mockCollection.On("FindOne", mock.Anything, bson.M{"email": "jordan@diu.edu"}).Return(mockResult)
	mockResult.On("Decode", mock.Anything).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.Email = "jordan@diu.edu"
	}).Return(nil)

	udb := databases.NewUserDatabase(mockDBHelper)

	user, err := udb.FindOne(context.Background(), bson.M{"email": "jordan@diu.edu"})
	assert.NoError(t, err)
	assert.Equal(t, "jordan@diu.edu", user.Email)
}
