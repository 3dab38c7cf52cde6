package model

import "time"

// Clip describes the stored text artifact addressable by a short code.
type Clip struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Title     *string    `json:"title,omitempty" gorm:"size:256"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	ShortCode string     `json:"short_code" gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" gorm:"index"`
	Password  *string    `json:"-" gorm:"size:256"`
	Hits      int64      `json:"hits" gorm:"not null;default:0"`
}

// TableName keeps the table name stable regardless of GORM pluralization.
func (Clip) TableName() string { return "clips" }
