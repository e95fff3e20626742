package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rpupo63/inkwell/auth"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/models"
	"github.com/rpupo63/inkwell/services"
	"github.com/rpupo63/inkwell/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder      Responder
	logger         zerolog.Logger
	users          *services.UserService
	tokens         *auth.TokenIssuer
	avatars        storage.AvatarStore
	maxUploadBytes int64
}

func newUserHandler(users *services.UserService, tokens *auth.TokenIssuer, avatars storage.AvatarStore, maxUploadBytes int64) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		users:          users,
		tokens:         tokens,
		avatars:        avatars,
		maxUploadBytes: maxUploadBytes,
	}
}

func toProfile(user *models.User) (UserProfile, error) {
	var profile UserProfile
	if err := copier.Copy(&profile, user); err != nil {
		return UserProfile{}, err
	}
	profile.GenderLabel = user.Gender.Label()
	return profile, nil
}

// signUp registers a user from a multipart form with an avatar file
// @Summary Sign up
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name, 1-10 characters"
// @Param password formData string true "Password"
// @Param repassword formData string true "Password confirmation"
// @Param gender formData string false "m, f or x"
// @Param bio formData string true "Bio, 1-30 characters"
// @Param avatar formData file true "Avatar image"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /signup [post]
func (h userHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(tooLarge.Limit))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("sign up", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		input := services.SignUpInput{
			Name:       r.FormValue("name"),
			Password:   r.FormValue("password"),
			RePassword: r.FormValue("repassword"),
			Gender:     models.Gender(strings.TrimSpace(r.FormValue("gender"))),
			Bio:        r.FormValue("bio"),
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			h.responder.WriteError(w, errs.NewValidationError("avatar", "an avatar is required"))
			return
		}
		defer file.Close()

		avatar, err := h.avatars.Save(r.Context(), header.Filename, file, header.Size)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedFile) {
				h.responder.WriteError(w, errs.NewValidationError("avatar", err.Error()))
				return
			}
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not store avatar", err))
			return
		}
		input.Avatar = avatar

		user, err := h.users.SignUp(r.Context(), input)
		if err != nil {
			if rmErr := h.avatars.Delete(r.Context(), avatar); rmErr != nil {
				h.logger.Warn().Err(rmErr).Str("avatar", avatar).Msg("Failed to drop avatar of rejected sign up")
			}
			h.responder.WriteError(w, err)
			return
		}

		h.writeSession(w, http.StatusCreated, user, "signed up")
	}
}

// signIn checks credentials and issues a session token
// @Summary Sign in
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body SignInRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /signin [post]
func (h userHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := decodeJSON(w, r, &req, "sign in"); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		} else {
			req.Name = r.FormValue("name")
			req.Password = r.FormValue("password")
		}

		user, err := h.users.SignIn(r.Context(), req.Name, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.writeSession(w, http.StatusOK, user, "signed in")
	}
}

// signOut acknowledges a sign out. Tokens are stateless, clients drop theirs.
// @Summary Sign out
// @Tags Users
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /signout [post]
func (h userHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info().Str("userID", ctxGetUserID(r.Context()).String()).Msg("User signed out")
		h.responder.WriteJSON(w, MessageResponse{Message: "signed out"})
	}
}

// getUser returns a public profile
// @Summary Get user
// @Tags Users
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Success 200 {object} UserProfile
// @Failure 404 {object} ErrorResponse
// @Router /users/{userID} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := urlID(r, "userID", "user")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.Get(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile, err := toProfile(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not build profile", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

func (h userHandler) writeSession(w http.ResponseWriter, status int, user *models.User, message string) {
	token, expiresAt, err := h.tokens.Issue(user.ID, user.Name)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not issue session", err))
		return
	}

	profile, err := toProfile(user)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not build profile", err))
		return
	}

	h.responder.WriteJSONStatus(w, status, AuthResponse{
		Message:   message,
		User:      profile,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
