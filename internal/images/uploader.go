package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Options struct {
	Bucket        string
	Prefix        string // e.g. "uploads/"
	PublicBaseURL string // e.g. https://<bucket>.s3.amazonaws.com
	MaxBytes      int64
	RetryDelay    time.Duration
}

type Uploader struct {
	client ObjectPutter
	opt    Options
	newID  func() string
}

type Upload struct {
	Bucket      string `json:"-"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"-"`
	Size        int64  `json:"-"`
}

func NewUploader(client ObjectPutter, opt Options) *Uploader {
	if opt.RetryDelay <= 0 {
		opt.RetryDelay = 200 * time.Millisecond
	}
	opt.PublicBaseURL = strings.TrimRight(opt.PublicBaseURL, "/")
	if opt.PublicBaseURL == "" {
		opt.PublicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", opt.Bucket)
	}
	return &Uploader{client: client, opt: opt, newID: uuid.NewString}
}

func (u *Uploader) MaxBytes() int64 { return u.opt.MaxBytes }

// CheckSize rejects empty payloads and payloads over the configured maximum.
func (u *Uploader) CheckSize(n int64) error {
	if n == 0 {
		return apperr.Validation("image is required")
	}
	if u.opt.MaxBytes > 0 && n > u.opt.MaxBytes {
		return apperr.Validation("payload too large")
	}
	return nil
}

// Key returns a fresh object key for the extension.
func (u *Uploader) Key(ext string) string {
	return ensureTrailingSlash(u.opt.Prefix) + u.newID() + ext
}

// Upload validates, names and writes one image. A transient transport
// failure is retried once; anything else fails immediately.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (*Upload, error) {
	mt, ext, err := CheckType(contentType)
	if err != nil {
		return nil, err
	}
	if err := u.CheckSize(int64(len(data))); err != nil {
		return nil, err
	}

	key := u.Key(ext)
	backoff := retry.WithMaxRetries(1, retry.NewConstant(u.opt.RetryDelay))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, perr := u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(u.opt.Bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentType:   aws.String(mt),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if perr != nil && isTransient(perr) {
			return retry.RetryableError(perr)
		}
		return perr
	})
	if err != nil {
		return nil, apperr.Storage(fmt.Sprintf("s3 putobject %s/%s", u.opt.Bucket, key), err)
	}

	return &Upload{
		Bucket:      u.opt.Bucket,
		Key:         key,
		URL:         u.opt.PublicBaseURL + "/" + key,
		ContentType: mt,
		Size:        int64(len(data)),
	}, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var sendErr *smithyhttp.RequestSendError
	if errors.As(err, &sendErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func ensureTrailingSlash(s string) string {
	if s == "" {
		return ""
	}
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
