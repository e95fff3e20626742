package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/models"
)

// PostStore is the persistence the post service needs. Lookups return (nil, nil)
// when no record matches.
type PostStore interface {
	FindAll(ctx context.Context, authorID *uuid.UUID) ([]*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, post *models.Post) error
	UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// PostLookup is the read-only view of posts the comment service uses.
type PostLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// CommentCounter aggregates comment totals per post.
type CommentCounter interface {
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// CommentPurger is the only write access to comments the post service gets.
type CommentPurger interface {
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type CommentStore interface {
	CommentCounter
	CommentPurger
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Add(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

// TxRunner runs fn in one transaction; stores called with the ctx passed to fn take part in it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
