package databases

// go generate: mockery --name LostReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diulnf/lostfound-api/models"
)

const lostReportCollectionName = "lost_reports"

// LostReportDatabase contains the methods to use with the lost report database
type LostReportDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LostReport, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LostReport, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	AggregateViews(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) ([]models.LostReportView, error)
}

type lostReportDatabase struct {
	db DatabaseHelper
}

// NewLostReportDatabase initializes a new instance of lost report database with the provided db connection
func NewLostReportDatabase(db DatabaseHelper) LostReportDatabase {
	return &lostReportDatabase{
		db: db,
	}
}

func (c *lostReportDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LostReport, error) {
	report := &models.LostReport{}
	err := c.db.Collection(lostReportCollectionName).FindOne(ctx, filter, opts...).Decode(report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *lostReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LostReport, error) {
	var reports []models.LostReport
	curr, err := c.db.Collection(lostReportCollectionName).Find(ctx, filter, opts...)
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

func (c *lostReportDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(lostReportCollectionName).InsertOne(ctx, document, opts...)
}

func (c *lostReportDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(lostReportCollectionName).CountDocuments(ctx, filter, opts...)
}

// AggregateViews runs a join pipeline and decodes the result into
// reporter-joined views
func (c *lostReportDatabase) AggregateViews(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) ([]models.LostReportView, error) {
	var views []models.LostReportView
	curr, err := c.db.Collection(lostReportCollectionName).Aggregate(ctx, pipeline, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &views)
	if err != nil {
		return nil, err
	}
	return views, nil
}
