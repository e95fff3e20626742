package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/models"
	"github.com/rpupo63/inkwell/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     *services.PostService
	comments  *services.CommentService
}

func newPostHandler(posts *services.PostService, comments *services.CommentService) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
		comments:  comments,
	}
}

// listPosts lists posts newest first, optionally by one author
// @Summary List posts
// @Tags Posts
// @Produce json
// @Param author query string false "Author ID" format(uuid)
// @Success 200 {object} PostCollection
// @Failure 400 {object} ErrorResponse
// @Router /posts [get]
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var authorID *uuid.UUID
		if raw := r.URL.Query().Get("author"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewValidationError("author", "invalid author id"))
				return
			}
			authorID = &id
		}

		posts, err := h.posts.List(r.Context(), authorID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}

		h.responder.WriteJSON(w, PostCollection{Posts: posts, Total: len(posts)})
	}
}

// getPost returns the post page: the post, counted as one view, and its comments
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} PostPage
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := urlID(r, "postID", "post")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var page PostPage
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			post, err := h.posts.Get(ctx, postID)
			page.Post = post
			return err
		})
		g.Go(func() error {
			comments, err := h.comments.ListByPost(ctx, postID)
			page.Comments = comments
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if page.Comments == nil {
			page.Comments = []*models.Comment{}
		}

		h.responder.WriteJSON(w, page)
	}
}

// editPost returns the raw post to its author for editing
// @Summary Get post for editing
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.Post
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID}/edit [get]
func (h postHandler) editPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := urlID(r, "postID", "post")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.GetForEdit(r.Context(), postID, ctxGetUserID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost publishes a post as the signed in user
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body PostRequest true "Post"
// @Success 201 {object} PostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostRequest
		if err := decodeJSON(w, r, &req, "post"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Create(r.Context(), ctxGetUserID(r.Context()), req.Title, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, PostResponse{Message: "post published", Post: post})
	}
}

// updatePost replaces title and content of an owned post
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Param post body PostRequest true "Post"
// @Success 200 {object} PostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := urlID(r, "postID", "post")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req PostRequest
		if err := decodeJSON(w, r, &req, "post"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Update(r.Context(), postID, ctxGetUserID(r.Context()), req.Title, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, PostResponse{Message: "post updated", Post: post})
	}
}

// deletePost removes an owned post and its comments
// @Summary Delete post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := urlID(r, "postID", "post")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Delete(r.Context(), postID, ctxGetUserID(r.Context())); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "post deleted"})
	}
}
