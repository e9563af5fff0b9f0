// internal/domain/models/publicationlog.go
package models

import "time"

// PublicationLogID is the fixed _id of the singleton log document in the
// system collection.
const PublicationLogID = "ai_publish_log"

// PublicationLog records the last calendar day the daily generator
// published. LastDate uses the YYYY-MM-DD layout in the board's time zone.
type PublicationLog struct {
	ID        string     `bson:"_id" json:"id"`
	LastDate  string     `bson:"last_date" json:"last_date"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
