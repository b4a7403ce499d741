package models

// Counter holds the structure for the counters collection in mongo. One
// counter per report-ID namespace ("lostlnf", "foundlnf"); Value only ever
// increases.
type Counter struct {
	Name  string `bson:"_id" json:"name"`
	Value int64  `bson:"value" json:"value"`
}
