package services

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/database"
	"github.com/rpupo63/inkwell/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) database.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return database.New(db)
}

type testEnv struct {
	db       database.Database
	posts    *PostService
	comments *CommentService
	users    *UserService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db := newTestDB(t)
	renderer := NewRenderer()
	return testEnv{
		db:       db,
		posts:    NewPostService(db.PostRepo(), db.CommentRepo(), db, renderer),
		comments: NewCommentService(db.CommentRepo(), db.PostRepo(), renderer),
		users:    NewUserService(db.UserRepo()),
	}
}

// addUser stores a user directly, skipping password hashing.
func addUser(t *testing.T, db database.Database, name string) uuid.UUID {
	t.Helper()

	user := &models.User{Name: name, Password: "hash", Avatar: "/img/a.png", Bio: "hi"}
	require.NoError(t, db.UserRepo().Add(context.Background(), user))
	return user.ID
}

var errPurgeFailed = errors.New("comment purge failed")

// failingPurger counts like the real comment store but cannot delete.
type failingPurger struct {
	*database.CommentRepo
}

func (f failingPurger) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	return 0, errPurgeFailed
}

var errStoreDown = errors.New("store unavailable")

type brokenPostStore struct {
	PostStore
}

func (b brokenPostStore) FindAll(ctx context.Context, authorID *uuid.UUID) ([]*models.Post, error) {
	return nil, errStoreDown
}

func (b brokenPostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return nil, errStoreDown
}
