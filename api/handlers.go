package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/database"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/services"
)

const maxJSONBodyBytes = 1 << 20

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, r router) *routeHandlers {
	renderer := services.NewRenderer()
	postService := services.NewPostService(db.PostRepo(), db.CommentRepo(), db, renderer)
	commentService := services.NewCommentService(db.CommentRepo(), db.PostRepo(), renderer)
	userService := services.NewUserService(db.UserRepo())

	return &routeHandlers{
		userHandler:    newUserHandler(userService, r.tokens, r.avatars, r.maxUploadBytes),
		postHandler:    newPostHandler(postService, commentService),
		commentHandler: newCommentHandler(commentService),
		healthHandler:  newHealthHandler(db, r.startupTime),
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, payloadType string) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(tooLarge.Limit)
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	return nil
}

// urlID parses a uuid path parameter. Unparseable ids cannot name an existing
// record, so they are reported as not found.
func urlID(r *http.Request, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errs.NewNotFound(entity)
	}
	return id, nil
}
