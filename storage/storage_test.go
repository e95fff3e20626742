package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func TestLocalStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "Me.PNG", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, PublicPrefix))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	path := filepath.Join(dir, strings.TrimPrefix(ref, PublicPrefix))
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, written)

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), ref))
}

func TestLocalStore_RejectsNonImages(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "notes.txt", strings.NewReader("hello"), 5)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	// Right extension, wrong content
	_, err = store.Save(context.Background(), "fake.png", strings.NewReader("plain text"), 10)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	body    []byte
	deletes []*s3.DeleteObjectInput
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, params)
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, params)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_SaveAndDelete(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "avatars-bucket", "https://cdn.example.com/")

	ref, err := store.Save(context.Background(), "me.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	require.Len(t, client.puts, 1)

	put := client.puts[0]
	assert.Equal(t, "avatars-bucket", aws.ToString(put.Bucket))
	assert.True(t, strings.HasPrefix(aws.ToString(put.Key), "avatars/"))
	assert.Equal(t, "image/png", aws.ToString(put.ContentType))
	assert.Equal(t, pngHeader, client.body)
	assert.Equal(t, "https://cdn.example.com/"+aws.ToString(put.Key), ref)

	require.NoError(t, store.Delete(context.Background(), ref))
	require.Len(t, client.deletes, 1)
	assert.Equal(t, aws.ToString(put.Key), aws.ToString(client.deletes[0].Key))

	assert.Error(t, store.Delete(context.Background(), "https://elsewhere.example.com/x.png"))
}

func TestNew_SelectsStore(t *testing.T) {
	dir := t.TempDir()
	store, err := New(context.Background(), map[string]string{"AVATAR_DIR": dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), map[string]string{"AVATAR_STORAGE": "s3"})
	assert.Error(t, err)

	_, err = New(context.Background(), map[string]string{"AVATAR_STORAGE": "ftp"})
	assert.Error(t, err)
}
