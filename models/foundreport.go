package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FoundReport holds the structure for the found_reports collection in mongo.
// ReportID (FND + 6-digit sequence) is the external handle used by every
// status-transition endpoint; the internal _id is only used for direct
// document joins.
type FoundReport struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	ReportID        string              `bson:"reportId" json:"reportId"`
	ItemName        string              `bson:"itemName" json:"itemName"`
	Description     string              `bson:"description" json:"description"`
	Color           string              `bson:"color,omitempty" json:"color,omitempty"`
	FoundLocation   string              `bson:"found_location" json:"found_location"`
	FoundDate       string              `bson:"found_date" json:"found_date"`
	FoundTime       string              `bson:"found_time,omitempty" json:"found_time,omitempty"`
	ImageURL        string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ReportedBy      primitive.ObjectID  `bson:"reportedBy" json:"reportedBy"`
	Status          FoundStatus         `bson:"status" json:"status"`
	Claims          []ClaimEntry        `bson:"claims" json:"claims,omitempty"`
	StoredBy        string              `bson:"storedBy,omitempty" json:"storedBy,omitempty"`
	StoredAt        *primitive.DateTime `bson:"storedAt,omitempty" json:"storedAt,omitempty"`
	TakenBy         *primitive.ObjectID `bson:"takenBy,omitempty" json:"takenBy,omitempty"`
	HandedOverBy    string              `bson:"handedOverBy,omitempty" json:"handedOverBy,omitempty"`
	HandedOverAt    *primitive.DateTime `bson:"handedOverAt,omitempty" json:"handedOverAt,omitempty"`
	StatusUpdatedAt primitive.DateTime  `bson:"statusUpdatedAt" json:"statusUpdatedAt"`
	CreatedAt       primitive.DateTime  `bson:"createdAt" json:"createdAt"`
}

// ClaimEntry is one user's claim on a stored found report. A report holds at
// most one entry per distinct userId; insertion order is chronological.
type ClaimEntry struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	ClaimedAt primitive.DateTime `bson:"claimedAt" json:"claimedAt"`
}

// FoundReportView is a found report joined with reporter (and, for resolved
// items, receiver) profiles. Receiver is optional: resolved records that
// predate receiver binding have none.
type FoundReportView struct {
	FoundReport `bson:",inline"`
	Reporter    *User `bson:"reporter,omitempty" json:"reporter,omitempty"`
	Receiver    *User `bson:"receiver,omitempty" json:"receiver,omitempty"`
}

// SearchResultView is a stored found report with the derived claimedStatus
// flag so the UI can disable claim actions without a second request
type SearchResultView struct {
	FoundReport   `bson:",inline"`
	Reporter      *User `bson:"reporter,omitempty" json:"reporter,omitempty"`
	ClaimedStatus bool  `bson:"claimedStatus" json:"claimedStatus"`
}

// ClaimWithUser pairs a claim entry with the resolved claimant profile.
// Claimant is nil when the profile lookup misses.
type ClaimWithUser struct {
	ClaimEntry `bson:",inline"`
	Claimant   *User `json:"claimant"`
}

// FoundReportDetail is the single-item admin view: the report joined with
// reporter plus the claims list resolved to claimant profiles. The handler
// nils the raw claims array before marshaling so the resolved list replaces
// it rather than duplicating the internal ids.
type FoundReportDetail struct {
	FoundReport           `bson:",inline"`
	Reporter              *User           `json:"reporter,omitempty"`
	ClaimsWithUserDetails []ClaimWithUser `json:"claimsWithUserDetails"`
}

// DashboardStats carries the five independent dashboard counts
type DashboardStats struct {
	LostReports    int64 `json:"lostReports"`
	FoundReports   int64 `json:"foundReports"`
	RecoveredItems int64 `json:"recoveredItems"`
	ClaimedItems   int64 `json:"claimedItems"`
	ResolvedItems  int64 `json:"resolvedItems"`
}

// ActivityLogEntry is one row of the admin activity log: a stored item with
// the acting admin's display name resolved from the roster (falling back to
// the raw email when the roster has no match)
type ActivityLogEntry struct {
	ReportID  string              `bson:"reportId" json:"reportId"`
	ItemName  string              `bson:"itemName" json:"itemName"`
	StoredBy  string              `bson:"storedBy" json:"storedBy"`
	AdminName string              `bson:"adminName" json:"adminName"`
	StoredAt  *primitive.DateTime `bson:"storedAt" json:"storedAt"`
	Status    FoundStatus         `bson:"status" json:"status"`
}

// LeaderboardEntry is one row of the top-reporters leaderboard
type LeaderboardEntry struct {
	UserID      primitive.ObjectID `bson:"_id" json:"userId"`
	ReportCount int64              `bson:"reportCount" json:"reportCount"`
	Reporter    *User              `bson:"reporter,omitempty" json:"reporter,omitempty"`
}
