package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentAggregator interface {
	CommentCounter
	CommentPurger
}

// PostService owns the post lifecycle: reads with view counting and comment
// aggregation, owner-gated edits, and deletion cascading to comments.
type PostService struct {
	posts    PostStore
	comments commentAggregator
	tx       TxRunner
	renderer *Renderer
	logger   zerolog.Logger
}

func NewPostService(posts PostStore, comments commentAggregator, tx TxRunner, renderer *Renderer) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		tx:       tx,
		renderer: renderer,
		logger:   log.With().Str("serviceName", "postService").Logger(),
	}
}

// List returns posts newest first, each with its comment count and rendered content.
func (s *PostService) List(ctx context.Context, authorID *uuid.UUID) ([]*models.Post, error) {
	posts, err := s.posts.FindAll(ctx, authorID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "posts", err)
	}
	if err := s.decorate(ctx, posts...); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get counts one view and returns the post. The increment is a single
// UPDATE ... SET views = views + 1, so concurrent readers never lose a view;
// a missing post is left untouched and reported as not found.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	matched, err := s.posts.IncrementViews(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("count view of", "post", err)
	}
	if !matched {
		return nil, errs.NewNotFound("post")
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFound("post")
	}

	if err := s.decorate(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetForEdit returns the raw post to its author without counting a view.
func (s *PostService) GetForEdit(ctx context.Context, id, actor uuid.UUID) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, post.AuthorID, "post"); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, author uuid.UUID, title, content string) (*models.Post, error) {
	if author == uuid.Nil {
		return nil, errs.NewNotAuthenticatedError("sign in first")
	}
	title, err := validatePost(title, content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: author,
		Title:    title,
		Content:  content,
	}
	if err := s.posts.Add(ctx, post); err != nil {
		return nil, errs.NewDatabaseError("create", "post", err)
	}

	s.logger.Info().Str("postID", post.ID.String()).Str("authorID", author.String()).Msg("Post published")
	post.ContentHTML = s.renderer.Render(post.Content)
	return post, nil
}

// Update replaces title and content. Existence is checked before ownership,
// ownership before input validation.
func (s *PostService) Update(ctx context.Context, id, actor uuid.UUID, title, content string) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, post.AuthorID, "post"); err != nil {
		return nil, err
	}
	title, err = validatePost(title, content)
	if err != nil {
		return nil, err
	}

	if err := s.posts.UpdateContent(ctx, id, title, content); err != nil {
		return nil, errs.NewDatabaseError("update", "post", err)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the post and then every comment referencing it, in one
// transaction. If the comment cleanup fails the post removal is rolled back.
func (s *PostService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, post.AuthorID, "post"); err != nil {
		return err
	}

	var removedComments int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		removed, err := s.posts.Delete(ctx, id)
		if err != nil {
			return err
		}
		if removed == 0 {
			return errs.NewNotFound("post")
		}

		removedComments, err = s.comments.DeleteByPost(ctx, id)
		return err
	})
	if err != nil {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return apiErr
		}
		s.logger.Error().Err(err).Str("postID", id.String()).Msg("Post deletion rolled back")
		return errs.NewTransactionFailedError("delete post", err)
	}

	s.logger.Info().
		Str("postID", id.String()).
		Int64("comments", removedComments).
		Msg("Post deleted with its comments")
	return nil
}

func (s *PostService) load(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

// decorate attaches comment counts, using one grouped count for the whole page,
// and the rendered content.
func (s *PostService) decorate(ctx context.Context, posts ...*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	counts, err := s.comments.CountByPosts(ctx, ids)
	if err != nil {
		return errs.NewDatabaseError("count", "comments", err)
	}

	for _, post := range posts {
		post.CommentsCount = counts[post.ID]
		post.ContentHTML = s.renderer.Render(post.Content)
	}
	return nil
}

// validatePost returns the trimmed title.
func validatePost(title, content string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errs.NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(content) == "" {
		return "", errs.NewValidationError("content", "content is required")
	}
	return title, nil
}
