package models

import (
	"time"

	"plume/internal/utils"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not a database column, filled by list queries.
	CommentCount int `gorm:"-" json:"comment_count"`
}

// SetBody updates the raw markdown and recomputes the sanitized HTML.
// BodyHTML is never written directly.
func (p *Post) SetBody(raw string) {
	p.Body = raw
	p.BodyHTML = utils.RenderPostMarkdown(raw)
}
