package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/require"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

type fakeS3 struct {
	errs   []error
	calls  int
	inputs []*s3.PutObjectInput
	bodies [][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.inputs = append(f.inputs, params)
	b, _ := io.ReadAll(params.Body)
	f.bodies = append(f.bodies, b)
	if len(f.errs) >= f.calls && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestUploader(client ObjectPutter) *Uploader {
	return NewUploader(client, Options{
		Bucket:     "roadmap-images",
		Prefix:     "uploads",
		MaxBytes:   5 * 1024 * 1024,
		RetryDelay: time.Millisecond,
	})
}

func TestCheckType(t *testing.T) {
	cases := map[string]string{
		"image/png":                  ".png",
		"IMAGE/JPEG":                 ".jpg",
		"image/jpg":                  ".jpg",
		"image/webp; charset=binary": ".webp",
	}
	for in, ext := range cases {
		_, got, err := CheckType(in)
		require.NoError(t, err, in)
		require.Equal(t, ext, got, in)
	}

	_, _, err := CheckType("application/pdf")
	require.EqualError(t, err, "validation: unsupported content type: application/pdf")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = CheckType("image/gif")
	require.Error(t, err)

	_, _, err = CheckType("  ")
	require.Equal(t, "content-type is required", apperr.PublicMessage(err))
}

func TestUploadPNG(t *testing.T) {
	f := &fakeS3{}
	u := newTestUploader(f)
	data := []byte("\x89PNG\r\n\x1a\nrest")

	up, err := u.Upload(context.Background(), data, "image/png")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(up.Key, "uploads/"))
	require.True(t, strings.HasSuffix(up.Key, ".png"))
	require.Equal(t, "https://roadmap-images.s3.amazonaws.com/"+up.Key, up.URL)
	require.Equal(t, int64(len(data)), up.Size)

	require.Equal(t, 1, f.calls)
	in := f.inputs[0]
	require.Equal(t, "roadmap-images", aws.ToString(in.Bucket))
	require.Equal(t, up.Key, aws.ToString(in.Key))
	require.Equal(t, "image/png", aws.ToString(in.ContentType))
	require.Equal(t, data, f.bodies[0])
}

func TestUploadKeysAreUnique(t *testing.T) {
	f := &fakeS3{}
	u := newTestUploader(f)
	data := []byte("same bytes")

	a, err := u.Upload(context.Background(), data, "image/jpeg")
	require.NoError(t, err)
	b, err := u.Upload(context.Background(), data, "image/jpeg")
	require.NoError(t, err)

	require.NotEqual(t, a.Key, b.Key)
	require.True(t, strings.HasSuffix(a.Key, ".jpg"))
}

func TestUploadRejectsBeforeStore(t *testing.T) {
	f := &fakeS3{}
	u := newTestUploader(f)

	_, err := u.Upload(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = u.Upload(context.Background(), bytes.Repeat([]byte{1}, 6*1024*1024), "image/png")
	require.Equal(t, "payload too large", apperr.PublicMessage(err))

	_, err = u.Upload(context.Background(), nil, "image/png")
	require.Equal(t, "image is required", apperr.PublicMessage(err))

	require.Zero(t, f.calls)
}

func TestUploadRetriesTransientOnce(t *testing.T) {
	sendErr := &smithyhttp.RequestSendError{Err: errors.New("connection reset by peer")}
	f := &fakeS3{errs: []error{sendErr, nil}}
	u := newTestUploader(f)
	data := []byte("img")

	up, err := u.Upload(context.Background(), data, "image/webp")
	require.NoError(t, err)
	require.Equal(t, 2, f.calls)
	require.Equal(t, f.inputs[0].Key, f.inputs[1].Key)
	require.Equal(t, data, f.bodies[1])
	require.True(t, strings.HasSuffix(up.Key, ".webp"))
}

func TestUploadGivesUpAfterOneRetry(t *testing.T) {
	sendErr := &smithyhttp.RequestSendError{Err: errors.New("timeout")}
	f := &fakeS3{errs: []error{sendErr, sendErr, sendErr}}
	u := newTestUploader(f)

	_, err := u.Upload(context.Background(), []byte("img"), "image/png")
	require.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	require.Equal(t, 2, f.calls)
}

func TestUploadDoesNotRetryPermanent(t *testing.T) {
	f := &fakeS3{errs: []error{errors.New("AccessDenied")}}
	u := newTestUploader(f)

	_, err := u.Upload(context.Background(), []byte("img"), "image/png")
	require.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	require.Equal(t, 1, f.calls)
	require.NotContains(t, apperr.PublicMessage(err), "AccessDenied")
}

func TestCustomPublicBaseURL(t *testing.T) {
	u := NewUploader(&fakeS3{}, Options{Bucket: "b", PublicBaseURL: "https://cdn.example.com/", MaxBytes: 10})
	u.newID = func() string { return "fixed" }

	up, err := u.Upload(context.Background(), []byte("x"), "image/png")
	require.NoError(t, err)
	require.Equal(t, "fixed.png", up.Key)
	require.Equal(t, "https://cdn.example.com/fixed.png", up.URL)
}
