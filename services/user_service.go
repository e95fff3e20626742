package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/auth"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SignUpInput carries already parsed form fields; Avatar is the reference
// returned by the avatar store.
type SignUpInput struct {
	Name       string        `json:"name" validate:"min=1,max=10"`
	Password   string        `json:"password" validate:"min=6,max=72"`
	RePassword string        `json:"repassword" validate:"eqfield=Password"`
	Gender     models.Gender `json:"gender" validate:"oneof=m f x"`
	Bio        string        `json:"bio" validate:"min=1,max=30"`
	Avatar     string        `json:"avatar" validate:"required"`
}

var signUpMessages = map[string]string{
	"name":       "name must be 1-10 characters",
	"password":   "password must be 6-72 characters",
	"repassword": "passwords do not match",
	"gender":     "gender must be one of m, f or x",
	"bio":        "bio must be 1-30 characters",
	"avatar":     "an avatar is required",
}

// UserService is the identity store surface: sign up, sign in and profile reads.
type UserService struct {
	users  UserStore
	logger zerolog.Logger
}

func NewUserService(users UserStore) *UserService {
	return &UserService{
		users:  users,
		logger: log.With().Str("serviceName", "userService").Logger(),
	}
}

func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Bio = strings.TrimSpace(input.Bio)
	if input.Gender == "" {
		input.Gender = models.GenderUndisclosed
	}
	if err := validateInput(input, signUpMessages); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByName(ctx, input.Name)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewConflictError("name already taken")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, errs.NewValidationError("password", signUpMessages["password"])
		}
		return nil, errs.NewInternalErrorWithCause("could not store password", err)
	}

	user := &models.User{
		Name:     input.Name,
		Password: hash,
		Avatar:   input.Avatar,
		Gender:   input.Gender,
		Bio:      input.Bio,
	}
	if err := s.users.Add(ctx, user); err != nil {
		dbErr := errs.NewDatabaseError("create", "user", err)
		if errs.IsAlreadyExists(dbErr) {
			return nil, errs.NewConflictError("name already taken")
		}
		return nil, dbErr
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("name", user.Name).Msg("User signed up")
	return user, nil
}

// SignIn checks credentials. Unknown names and wrong passwords get the same answer.
func (s *UserService) SignIn(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidationError("name", "name is required")
	}
	if password == "" {
		return nil, errs.NewValidationError("password", "password is required")
	}

	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotAuthenticatedError("wrong name or password")
	}

	if err := auth.CheckPasswordHash(password, user.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, errs.NewNotAuthenticatedError("wrong name or password")
		}
		return nil, errs.NewInternalErrorWithCause("could not verify password", err)
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}
	return user, nil
}
