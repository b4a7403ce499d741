package databases

// go generate: mockery --name CounterDatabase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diulnf/lostfound-api/models"
)

const counterName = "counters"

// Counter namespaces for the report-ID sequences
const (
	LostCounter  = "lostlnf"
	FoundCounter = "foundlnf"
)

// CounterDatabase issues monotonically increasing sequence values per named
// counter
type CounterDatabase interface {
	Next(ctx context.Context, name string) (int64, error)
}

type counterDatabase struct {
	db DatabaseHelper
}

// NewCounterDatabase initializes a new instance of counter database with the provided db connection
func NewCounterDatabase(db DatabaseHelper) CounterDatabase {
	return &counterDatabase{
		db: db,
	}
}

// Next atomically increments the named counter and returns the new value,
// creating the counter at 1 if absent. A single findOneAndUpdate carries the
// increment so concurrent callers can never observe the same value.
func (c *counterDatabase) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	counter := &models.Counter{}
	err := c.db.Collection(counterName).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(counter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %q: %w", name, err)
	}
	return counter.Value, nil
}

// FormatReportID builds the human-readable report handle from a counter
// value, e.g. FormatReportID("FND", 7) == "FND000007"
func FormatReportID(prefix string, value int64) string {
	return fmt.Sprintf("%s%06d", prefix, value)
}
