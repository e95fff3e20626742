package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/config"
)

var ErrUnsupportedFile = errors.New("only image files can be used as avatars")

// AvatarStore persists an uploaded avatar and returns the reference stored on the user.
type AvatarStore interface {
	Save(ctx context.Context, filename string, body io.Reader, size int64) (string, error)
	// Delete drops an avatar saved by this store, e.g. after a failed sign up.
	Delete(ctx context.Context, ref string) error
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// New picks the avatar sink named by AVATAR_STORAGE.
func New(ctx context.Context, c map[string]string) (AvatarStore, error) {
	switch kind := config.GetString(c, "AVATAR_STORAGE", "local"); kind {
	case "local":
		store, err := NewLocalStore(config.GetString(c, "AVATAR_DIR", "public/img"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		bucket := config.GetString(c, "AVATAR_BUCKET", "")
		if bucket == "" {
			return nil, errors.New("AVATAR_BUCKET is required for s3 avatar storage")
		}
		store, err := NewS3Store(ctx, c, bucket, config.GetString(c, "AVATAR_PUBLIC_URL", ""))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown AVATAR_STORAGE %q", kind)
	}
}

// objectName validates the upload and returns a fresh name keeping its extension,
// together with the sniffed content type and a reader positioned at the start.
func objectName(filename string, body io.Reader) (string, string, io.Reader, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExtensions[ext] {
		return "", "", nil, ErrUnsupportedFile
	}

	// Detection consumes the head of body; keep it for the upload
	var head bytes.Buffer
	mtype, err := mimetype.DetectReader(io.TeeReader(body, &head))
	if err != nil {
		return "", "", nil, fmt.Errorf("read avatar: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", "", nil, ErrUnsupportedFile
	}

	return uuid.NewString() + ext, mtype.String(), io.MultiReader(&head, body), nil
}
