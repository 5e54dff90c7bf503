package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/maheshrc27/clipstudio/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestR2Upload(t *testing.T) {
	api := new(mockObjectAPI)
	r2 := service.NewR2ServiceWithClient("clips-bucket", api)

	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "clips-bucket" && *in.Key == "clips/u/a.mp4" &&
			*in.ContentType == "video/mp4" && *in.ContentLength == 5
	})).Return(&s3.PutObjectOutput{}, nil)

	require.NoError(t, r2.Upload(context.Background(), "clips/u/a.mp4", []byte("video"), "video/mp4"))
	api.AssertExpectations(t)
}

func TestR2Download(t *testing.T) {
	api := new(mockObjectAPI)
	r2 := service.NewR2ServiceWithClient("clips-bucket", api)

	api.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Key == "clips/u/a.mp4"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("video"))}, nil)

	data, err := r2.Download(context.Background(), "clips/u/a.mp4")

	require.NoError(t, err)
	assert.Equal(t, []byte("video"), data)
}

func TestR2Download_NotFound(t *testing.T) {
	api := new(mockObjectAPI)
	r2 := service.NewR2ServiceWithClient("clips-bucket", api)

	api.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	_, err := r2.Download(context.Background(), "clips/u/missing.mp4")
	assert.ErrorIs(t, err, service.ErrAssetNotFound)

	other := new(mockObjectAPI)
	other.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("network down"))
	_, err = service.NewR2ServiceWithClient("b", other).Download(context.Background(), "k")
	assert.NotErrorIs(t, err, service.ErrAssetNotFound)
}
