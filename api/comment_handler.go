package api

import (
	"net/http"

	"github.com/rpupo63/inkwell/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	comments  *services.CommentService
}

func newCommentHandler(comments *services.CommentService) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		comments:  comments,
	}
}

// createComment adds a comment to a post
// @Summary Create comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param comment body CommentRequest true "Comment"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID}/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := urlID(r, "postID", "post")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req CommentRequest
		if err := decodeJSON(w, r, &req, "comment"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.comments.Create(r.Context(), ctxGetUserID(r.Context()), postID, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, CommentResponse{Message: "comment posted", Comment: comment})
	}
}

// deleteComment removes a comment written by the signed in user
// @Summary Delete comment
// @Tags Comments
// @Produce json
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /comments/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := urlID(r, "commentID", "comment")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.comments.Delete(r.Context(), commentID, ctxGetUserID(r.Context())); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "comment deleted"})
	}
}
