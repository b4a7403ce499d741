package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// LostReport holds the structure for the lost_reports collection in mongo.
// ReportID is the human-readable external handle (LST + 6-digit sequence)
// and is immutable once minted.
type LostReport struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ReportID        string             `bson:"reportId" json:"reportId"`
	ItemName        string             `bson:"itemName" json:"itemName"`
	Description     string             `bson:"description" json:"description"`
	Color           string             `bson:"color,omitempty" json:"color,omitempty"`
	LostLocation    string             `bson:"lost_location" json:"lost_location"`
	LostDate        string             `bson:"lost_date" json:"lost_date"`
	LostTime        string             `bson:"lost_time,omitempty" json:"lost_time,omitempty"`
	ImageURL        string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ReportedBy      primitive.ObjectID `bson:"reportedBy" json:"reportedBy"`
	Status          LostStatus         `bson:"status" json:"status"`
	StatusUpdatedAt primitive.DateTime `bson:"statusUpdatedAt" json:"statusUpdatedAt"`
	CreatedAt       primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// LostReportView is a lost report joined with its reporter profile, produced
// by the list aggregations
type LostReportView struct {
	LostReport `bson:",inline"`
	Reporter   *User `bson:"reporter,omitempty" json:"reporter,omitempty"`
}
