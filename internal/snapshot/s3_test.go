package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI keeps objects in a map keyed by bucket/key.
type fakeObjectAPI struct {
	objects map[string][]byte
	putErr  error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: make(map[string][]byte)}
}

func (f *fakeObjectAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_SaveAndLoad(t *testing.T) {
	api := newFakeObjectAPI()
	storage := NewS3StorageWithClient(api, "atelier", "state/", zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "orders", []byte(`[]`)))
	assert.Contains(t, api.objects, "atelier/state/orders.json")

	data, err := storage.Load(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestS3Storage_LoadMissingMapsToNotFound(t *testing.T) {
	storage := NewS3StorageWithClient(newFakeObjectAPI(), "atelier", "", zerolog.Nop())

	_, err := storage.Load(context.Background(), "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Storage_SaveError(t *testing.T) {
	api := newFakeObjectAPI()
	api.putErr = errors.New("access denied")
	storage := NewS3StorageWithClient(api, "atelier", "", zerolog.Nop())

	err := storage.Save(context.Background(), "cart", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
