package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler    userHandler
	postHandler    postHandler
	commentHandler commentHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"post not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"only the author can change this post"`
}

// MessageResponse is the flash style acknowledgement returned by write operations.
type MessageResponse struct {
	Message string `json:"message" example:"signed out"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Avatar      string        `json:"avatar"`
	Gender      models.Gender `json:"gender"`
	GenderLabel string        `json:"genderLabel"`
	Bio         string        `json:"bio"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type AuthResponse struct {
	Message   string      `json:"message"`
	User      UserProfile `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type SignInRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type PostCollection struct {
	Posts []*models.Post `json:"posts"`
	Total int            `json:"total"`
}

// PostPage is a post together with its comment thread.
type PostPage struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

type PostResponse struct {
	Message string       `json:"message"`
	Post    *models.Post `json:"post"`
}

type CommentResponse struct {
	Message string          `json:"message"`
	Comment *models.Comment `json:"comment"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}
