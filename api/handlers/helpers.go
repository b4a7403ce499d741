package handlers

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findNewestFirst is the default sort for the list views
func findNewestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.M{"createdAt": -1})
}
