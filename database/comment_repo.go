package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByPost returns the thread of a post, oldest first
func (r *CommentRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := conn(ctx, r.db).Preload("Author").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// FindByID returns a comment by its ID, or nil if there is none
func (r *CommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := conn(ctx, r.db).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return conn(ctx, r.db).Create(comment).Error
}

// Delete removes a single comment by id
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}

// DeleteByPost removes every comment that references postID
func (r *CommentRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}

type postCommentCount struct {
	PostID uuid.UUID
	Total  int64
}

// CountByPosts counts comments for every post in postIDs with one grouped query.
// Posts without comments are absent from the result.
func (r *CommentRepo) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCommentCount
	err := conn(ctx, r.db).Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
