package databases

// go generate: mockery --name FoundReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diulnf/lostfound-api/models"
)

const foundReportCollectionName = "found_reports"

// FoundReportDatabase contains the methods to use with the found report
// database. UpdateOne surfaces the raw UpdateResult because the store,
// claim and handover transitions condition their filters on status and
// decide 404/409 from the matched count.
type FoundReportDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.FoundReport, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.FoundReport, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error)
}

type foundReportDatabase struct {
	db DatabaseHelper
}

// NewFoundReportDatabase initializes a new instance of found report database with the provided db connection
func NewFoundReportDatabase(db DatabaseHelper) FoundReportDatabase {
	return &foundReportDatabase{
		db: db,
	}
}

func (c *foundReportDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.FoundReport, error) {
	report := &models.FoundReport{}
	err := c.db.Collection(foundReportCollectionName).FindOne(ctx, filter, opts...).Decode(report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *foundReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.FoundReport, error) {
	var reports []models.FoundReport
	curr, err := c.db.Collection(foundReportCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &reports)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *foundReportDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(foundReportCollectionName).InsertOne(ctx, document, opts...)
}

func (c *foundReportDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(foundReportCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (c *foundReportDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(foundReportCollectionName).CountDocuments(ctx, filter, opts...)
}

func (c *foundReportDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorHelper, error) {
	return c.db.Collection(foundReportCollectionName).Aggregate(ctx, pipeline, opts...)
}
