package model

import "time"

// ViewEvent represents a successful retrieval of a clip, kept as an audit row
// separate from the aggregated hit counter.
type ViewEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ShortCode string    `json:"short_code" gorm:"index;size:64;not null"`
	IP        string    `json:"ip" gorm:"size:64"`
	UserAgent string    `json:"user_agent" gorm:"size:512"`
	Timestamp time.Time `json:"timestamp"`
}

// TableName keeps the table name stable regardless of GORM pluralization.
func (ViewEvent) TableName() string { return "view_events" }

const (
	ViewStreamName     = "CLIP_VIEWS"
	ViewStreamSubject  = "clips.views"
	ViewConsumerName   = "view-logger"
	ViewStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
