package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the structure for the user collection in mongo. Users are
// created lazily on first report submission, profile completion, or as a
// side effect of manual entry and handover.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	UniversityID string             `bson:"universityId" json:"universityId"`
	Phone        string             `bson:"phone" json:"phone"`
	Department   string             `bson:"department" json:"department"`
	Role         string             `bson:"role" json:"role"`
	PhotoURL     string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	CreatedAt    primitive.DateTime `bson:"createdAt" json:"createdAt"`
	UpdatedAt    primitive.DateTime `bson:"updatedAt" json:"updatedAt"`
}

// UserProfile carries the caller-supplied profile fields used when a user
// record is created on the fly (report submission, manual entry, handover)
type UserProfile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	UniversityID string `json:"universityId"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
}
