package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/deppfellow/bizlist/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	delErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.types[*in.Bucket+"/"+*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.delErr != nil {
		return nil, f.delErr
	}
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_PutAndDelete(t *testing.T) {
	fake := newFakeS3()
	logger := zerolog.Nop()
	store := NewS3Store(fake, "listings", "https://cdn.example.com", &logger)
	ctx := context.Background()

	res, err := store.Put(ctx, "business-images/u/b/i.webp", []byte("webp"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "business-images/u/b/i.webp", res.Path)
	assert.Equal(t, []byte("webp"), fake.objects["listings/business-images/u/b/i.webp"])
	assert.Equal(t, "image/webp", fake.types["listings/business-images/u/b/i.webp"])

	require.NoError(t, store.Delete(ctx, "business-images/u/b/i.webp"))
	assert.Empty(t, fake.objects)
}

func TestS3Store_PutErrorKeepsCause(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("AccessDenied")
	logger := zerolog.Nop()
	store := NewS3Store(fake, "listings", "https://cdn.example.com", &logger)

	_, err := store.Put(context.Background(), "business-images/x.png", []byte("x"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, fake.putErr)
}

func TestS3Store_PublicURLEscapesSegments(t *testing.T) {
	logger := zerolog.Nop()
	store := NewS3Store(newFakeS3(), "listings", "https://cdn.example.com/", &logger)
	assert.Equal(t,
		"https://cdn.example.com/business-images/user%201/b/i.png",
		store.PublicURL("business-images/user 1/b/i.png"),
	)
}

func TestDefaultS3PublicBaseURL(t *testing.T) {
	assert.Equal(t,
		"https://listings.s3.eu-west-1.amazonaws.com",
		defaultS3PublicBaseURL(config.StorageConfig{Bucket: "listings", Region: "eu-west-1"}),
	)
	assert.Equal(t,
		"http://localhost:9000/listings",
		defaultS3PublicBaseURL(config.StorageConfig{Bucket: "listings", Endpoint: "http://localhost:9000/"}),
	)
}
