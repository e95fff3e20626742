package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type CommentService struct {
	comments CommentStore
	posts    PostLookup
	renderer *Renderer
	logger   zerolog.Logger
}

func NewCommentService(comments CommentStore, posts PostLookup, renderer *Renderer) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		renderer: renderer,
		logger:   log.With().Str("serviceName", "commentService").Logger(),
	}
}

// ListByPost returns the thread of a post oldest first, with rendered content.
func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	comments, err := s.comments.FindByPost(ctx, postID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "comments", err)
	}
	for _, comment := range comments {
		comment.ContentHTML = s.renderer.Render(comment.Content)
	}
	return comments, nil
}

// Create stores a comment. The referenced post must exist at this point; it is
// not re-checked afterwards.
func (s *CommentService) Create(ctx context.Context, author, postID uuid.UUID, content string) (*models.Comment, error) {
	if author == uuid.Nil {
		return nil, errs.NewNotAuthenticatedError("sign in first")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errs.NewValidationError("content", "comment content is required")
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFound("post")
	}

	comment := &models.Comment{
		AuthorID: author,
		PostID:   postID,
		Content:  content,
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, errs.NewDatabaseError("create", "comment", err)
	}

	s.logger.Info().
		Str("commentID", comment.ID.String()).
		Str("postID", postID.String()).
		Msg("Comment created")
	comment.ContentHTML = s.renderer.Render(comment.Content)
	return comment, nil
}

// Delete removes a comment on behalf of its author.
func (s *CommentService) Delete(ctx context.Context, id, actor uuid.UUID) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("find", "comment", err)
	}
	if comment == nil {
		return errs.NewNotFound("comment")
	}
	if err := Authorize(actor, comment.AuthorID, "comment"); err != nil {
		return err
	}

	removed, err := s.comments.Delete(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("delete", "comment", err)
	}
	if removed == 0 {
		return errs.NewNotFound("comment")
	}
	return nil
}
