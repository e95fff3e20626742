package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a published article. Content holds the raw Markdown source; the
// fields tagged gorm:"-" are derived on every read and never persisted.
type Post struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null;index:idx_posts_author_id,priority:2"`
	AuthorID  uuid.UUID `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index:idx_posts_author_id,priority:1"`
	Title     string    `json:"title" db:"title" gorm:"type:text;not null"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	Views     int64     `json:"views" db:"views" gorm:"type:bigint;not null;default:0"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`

	CommentsCount int64  `json:"commentsCount" gorm:"-"`
	ContentHTML   string `json:"contentHtml,omitempty" gorm:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}
