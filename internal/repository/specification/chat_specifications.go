package specification

import "gorm.io/gorm"

// SessionSummaryColumns leaves the messages column out of list queries.
type SessionSummaryColumns struct{}

func (s SessionSummaryColumns) Apply(db *gorm.DB) *gorm.DB {
	return db.Select("id", "user_id", "title", "created_at", "updated_at")
}
