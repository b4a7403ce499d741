package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin holds the structure for the admins collection in mongo. The roster
// is independent of the users collection: an email may exist in both, but
// authorization checks against this record.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	UniversityID string             `bson:"universityId" json:"universityId"`
	Phone        string             `bson:"phone" json:"phone"`
	Role         string             `bson:"role" json:"role"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
