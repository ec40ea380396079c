package models

import (
	"time"

	"plume/internal/utils"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post,omitempty"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	Disabled  bool      `gorm:"default:false" json:"disabled"` // hidden by a moderator, not deleted
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// SetBody updates the raw markdown and recomputes the sanitized HTML.
// Comments allow a much narrower tag set than posts.
func (c *Comment) SetBody(raw string) {
	c.Body = raw
	c.BodyHTML = utils.RenderCommentMarkdown(raw)
}
