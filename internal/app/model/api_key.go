package model

import "time"

// APIKey is an opaque bearer credential. The key column holds the base64
// transport form; the raw bytes exist only in the caller's hands.
type APIKey struct {
	Key       string    `json:"-" gorm:"primaryKey;size:64"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the table name stable regardless of GORM pluralization.
func (APIKey) TableName() string { return "api_keys" }
