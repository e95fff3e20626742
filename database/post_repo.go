package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/models"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindAll returns posts newest first, optionally restricted to one author
func (r *PostRepo) FindAll(ctx context.Context, authorID *uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post
	query := conn(ctx, r.db).Preload("Author")
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	err := query.Order("id DESC").Find(&posts).Error
	return posts, err
}

// FindByID returns a post by its ID, or nil if there is none
func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := conn(ctx, r.db).Preload("Author").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// IncrementViews adds one to the view counter in a single UPDATE statement.
// It reports whether a post matched; updated_at is left alone.
func (r *PostRepo) IncrementViews(ctx context.Context, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(ctx context.Context, post *models.Post) error {
	return conn(ctx, r.db).Create(post).Error
}

// UpdateContent overwrites title and content only; author and views are never written here
func (r *PostRepo) UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error {
	return conn(ctx, r.db).Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":   title,
			"content": content,
		}).Error
}

// Delete removes a post from the database by id
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Post{})
	return result.RowsAffected, result.Error
}
