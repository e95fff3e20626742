package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
	"github.com/rpupo63/inkwell/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignUp() SignUpInput {
	return SignUpInput{
		Name:       "alice",
		Password:   "secret1",
		RePassword: "secret1",
		Bio:        "writes things",
		Avatar:     "/img/alice.png",
	}
}

func TestUserService_SignUpAndSignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, models.GenderUndisclosed, user.Gender)
	assert.NotEqual(t, "secret1", user.Password)

	signedIn, err := env.users.SignIn(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	profile, err := env.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "writes things", profile.Bio)
}

func TestUserService_SignUpValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SignUpInput)
		field  string
	}{
		{"empty name", func(in *SignUpInput) { in.Name = "  " }, "name"},
		{"long name", func(in *SignUpInput) { in.Name = "abcdefghijk" }, "name"},
		{"short password", func(in *SignUpInput) { in.Password, in.RePassword = "abc", "abc" }, "password"},
		{"long password", func(in *SignUpInput) {
			in.Password = strings.Repeat("a", 73)
			in.RePassword = in.Password
		}, "password"},
		{"password over 72 bytes", func(in *SignUpInput) {
			in.Password = strings.Repeat("é", 40)
			in.RePassword = in.Password
		}, "password"},
		{"mismatched confirmation", func(in *SignUpInput) { in.RePassword = "other1" }, "repassword"},
		{"unknown gender", func(in *SignUpInput) { in.Gender = "q" }, "gender"},
		{"empty bio", func(in *SignUpInput) { in.Bio = "" }, "bio"},
		{"long bio", func(in *SignUpInput) { in.Bio = "0123456789012345678901234567890" }, "bio"},
		{"no avatar", func(in *SignUpInput) { in.Avatar = "" }, "avatar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSignUp()
			tt.mutate(&input)

			_, err := env.users.SignUp(ctx, input)
			require.True(t, errs.IsValidation(err), "got %v", err)

			var apiErr *errs.ApiErr
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}
}

func TestUserService_NameTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	_, err = env.users.SignUp(ctx, validSignUp())
	assert.True(t, errs.IsConflict(err))
}

func TestUserService_SignInFailuresLookAlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.users.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	_, wrongPassword := env.users.SignIn(ctx, "alice", "wrong-password")
	_, unknownName := env.users.SignIn(ctx, "nobody", "secret1")

	require.True(t, errs.IsNotAuthenticated(wrongPassword))
	require.True(t, errs.IsNotAuthenticated(unknownName))
	assert.Equal(t, wrongPassword.Error(), unknownName.Error())
}

func TestUserService_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Get(context.Background(), uuid.New())
	assert.True(t, errs.IsNotFound(err))
}
