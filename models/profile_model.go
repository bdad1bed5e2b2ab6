package models

import "time"

// Profile is the backend row holding a user's terms acceptance state.
// Both columns are nullable: a user who never accepted has neither.
type Profile struct {
	UserID          string     `json:"user_id" bson:"_id"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at" bson:"terms_accepted_at"`
	TermsVersion    *string    `json:"terms_version" bson:"terms_version"`
}
