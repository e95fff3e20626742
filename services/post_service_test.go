package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")

	post, err := env.posts.Create(ctx, alice, "  Hello  ", "**hi**")
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, int64(0), post.Views)
	assert.Equal(t, alice, post.AuthorID)

	got, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, "**hi**", got.Content)
	assert.Contains(t, got.ContentHTML, "<strong>hi</strong>")
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Name)
}

func TestPostService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")

	_, err := env.posts.Create(ctx, alice, "   ", "body")
	require.True(t, errs.IsValidation(err))
	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "title", apiErr.Field)

	_, err = env.posts.Create(ctx, alice, "title", " \n ")
	require.True(t, errs.IsValidation(err))
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "content", apiErr.Field)

	_, err = env.posts.Create(ctx, uuid.Nil, "title", "body")
	assert.True(t, errs.IsNotAuthenticated(err))

	posts, err := env.posts.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_ListNewestFirstWithCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")
	bob := addUser(t, env.db, "bob")

	first, err := env.posts.Create(ctx, alice, "first", "one")
	require.NoError(t, err)
	second, err := env.posts.Create(ctx, bob, "second", "two")
	require.NoError(t, err)
	third, err := env.posts.Create(ctx, alice, "third", "three")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := env.comments.Create(ctx, bob, first.ID, "nice")
		require.NoError(t, err)
	}
	_, err = env.comments.Create(ctx, alice, third.ID, "self reply")
	require.NoError(t, err)

	all, err := env.posts.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{third.ID, second.ID, first.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, int64(1), all[0].CommentsCount)
	assert.Equal(t, int64(0), all[1].CommentsCount)
	assert.Equal(t, int64(2), all[2].CommentsCount)

	mine, err := env.posts.List(ctx, &alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, third.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

func TestPostService_GetMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.posts.Get(context.Background(), uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestPostService_ConcurrentViewsAreNotLost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")
	post, err := env.posts.Create(ctx, alice, "popular", "read me")
	require.NoError(t, err)

	const readers = 20
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.posts.Get(ctx, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := env.db.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(readers), stored.Views)
}

func TestPostService_GetForEditDoesNotCountViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")
	bob := addUser(t, env.db, "bob")
	post, err := env.posts.Create(ctx, alice, "draft", "text")
	require.NoError(t, err)

	got, err := env.posts.GetForEdit(ctx, post.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Views)

	_, err = env.posts.GetForEdit(ctx, post.ID, bob)
	assert.True(t, errs.IsNotOwner(err))

	_, err = env.posts.GetForEdit(ctx, uuid.New(), alice)
	assert.True(t, errs.IsNotFound(err))
}

func TestPostService_UpdateGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")
	bob := addUser(t, env.db, "bob")
	post, err := env.posts.Create(ctx, alice, "title", "body")
	require.NoError(t, err)
	_, err = env.posts.Get(ctx, post.ID)
	require.NoError(t, err)

	_, err = env.posts.Update(ctx, post.ID, bob, "hijacked", "nope")
	assert.True(t, errs.IsNotOwner(err))

	_, err = env.posts.Update(ctx, post.ID, uuid.Nil, "anon", "nope")
	assert.True(t, errs.IsNotAuthenticated(err))

	// Existence is checked before ownership
	_, err = env.posts.Update(ctx, uuid.New(), bob, "x", "y")
	assert.True(t, errs.IsNotFound(err))

	// Ownership is checked before validation
	_, err = env.posts.Update(ctx, post.ID, bob, "", "")
	assert.True(t, errs.IsNotOwner(err))

	_, err = env.posts.Update(ctx, post.ID, alice, "", "body")
	assert.True(t, errs.IsValidation(err))

	stored, err := env.db.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", stored.Title)
	assert.Equal(t, "body", stored.Content)

	updated, err := env.posts.Update(ctx, post.ID, alice, "new title", "new *body*")
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, alice, updated.AuthorID)
	assert.Equal(t, int64(1), updated.Views)
	assert.Contains(t, updated.ContentHTML, "<em>body</em>")
}

func TestPostService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")
	bob := addUser(t, env.db, "bob")

	post, err := env.posts.Create(ctx, alice, "doomed", "body")
	require.NoError(t, err)
	other, err := env.posts.Create(ctx, alice, "survivor", "body")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := env.comments.Create(ctx, bob, post.ID, "comment")
		require.NoError(t, err)
	}
	kept, err := env.comments.Create(ctx, bob, other.ID, "stays")
	require.NoError(t, err)

	err = env.posts.Delete(ctx, post.ID, bob)
	assert.True(t, errs.IsNotOwner(err))

	require.NoError(t, env.posts.Delete(ctx, post.ID, alice))

	_, err = env.posts.Get(ctx, post.ID)
	assert.True(t, errs.IsNotFound(err))

	listed, err := env.posts.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, other.ID, listed[0].ID)
	assert.Equal(t, int64(1), listed[0].CommentsCount)

	orphans, err := env.db.CommentRepo().FindByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	remaining, err := env.comments.ListByPost(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	err = env.posts.Delete(ctx, post.ID, alice)
	assert.True(t, errs.IsNotFound(err))
}

func TestPostService_DeleteRollsBackWhenCommentCleanupFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := addUser(t, env.db, "alice")

	post, err := env.posts.Create(ctx, alice, "title", "body")
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, alice, post.ID, "comment")
	require.NoError(t, err)

	service := NewPostService(env.db.PostRepo(), failingPurger{env.db.CommentRepo()}, env.db, NewRenderer())
	err = service.Delete(ctx, post.ID, alice)
	require.Error(t, err)
	assert.True(t, errs.IsTransactionFailedError(err))
	assert.True(t, errs.IsStoreError(err))
	assert.ErrorIs(t, err, errPurgeFailed)

	stored, err := env.db.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	comments, err := env.db.CommentRepo().FindByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestPostService_StoreErrorsPropagate(t *testing.T) {
	env := newTestEnv(t)
	service := NewPostService(brokenPostStore{env.db.PostRepo()}, env.db.CommentRepo(), env.db, NewRenderer())

	_, err := service.List(context.Background(), nil)
	assert.True(t, errs.IsStoreError(err))
	assert.ErrorIs(t, err, errStoreDown)

	err = service.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, errs.IsStoreError(err))
	assert.False(t, errs.IsNotFound(err))
}
