package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/inkwell/storage"
)

// setupRoutes wires every endpoint. Reads are public; writes need a signed in user.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, avatarDir string) {
	r.Get("/health", handlers.healthHandler.health())

	if avatarDir != "" {
		fileServer := http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(avatarDir)))
		r.Get(storage.PublicPrefix+"*", fileServer.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.identify)

		r.Get("/users/{userID}", handlers.userHandler.getUser())
		r.Get("/posts", handlers.postHandler.listPosts())
		r.Get("/posts/{postID}", handlers.postHandler.getPost())

		// Anonymous only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAnonymous)

			r.Post("/signup", handlers.userHandler.signUp())
			r.Post("/signin", handlers.userHandler.signIn())
		})

		// Signed in only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireUser)

			r.Post("/signout", handlers.userHandler.signOut())

			r.Post("/posts", handlers.postHandler.createPost())
			r.Get("/posts/{postID}/edit", handlers.postHandler.editPost())
			r.Put("/posts/{postID}", handlers.postHandler.updatePost())
			r.Delete("/posts/{postID}", handlers.postHandler.deletePost())

			r.Post("/posts/{postID}/comments", handlers.commentHandler.createComment())
			r.Delete("/comments/{commentID}", handlers.commentHandler.deleteComment())
		})
	})
}
