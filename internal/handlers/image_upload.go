package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/hmrguez/QRiosity/internal/apperr"
	"github.com/hmrguez/QRiosity/internal/images"
)

// ImageJSONRequest is the browser form: a base64 image plus its declared
// MIME type. Data URLs are accepted too.
type ImageJSONRequest struct {
	Image    string `json:"image" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
}

func (r *ImageJSONRequest) trim() {
	r.Image = strings.TrimSpace(r.Image)
	r.MimeType = strings.TrimSpace(r.MimeType)
}

type ImageUploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Key     string `json:"key"`
}

type ImageUploadHandler struct {
	endpoint
	uploader *images.Uploader
}

func NewImageUploadHandler(c Common, uploader *images.Uploader) *ImageUploadHandler {
	e := newEndpoint(c)
	e.errorBody = func(msg string) any {
		return map[string]any{"message": msg, "url": nil}
	}
	return &ImageUploadHandler{endpoint: e, uploader: uploader}
}

// Handle accepts either a raw (possibly base64-flagged) image body tagged by
// Content-Type, or an application/json {image, mimeType} body.
func (h *ImageUploadHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return h.run(ctx, req, func(ctx context.Context, log zerolog.Logger) (any, error) {
		data, contentType, err := h.readImage(req)
		if err != nil {
			return nil, err
		}

		up, err := h.uploader.Upload(ctx, data, contentType)
		if err != nil {
			return nil, err
		}

		log.Info().Str("key", up.Key).Int64("bytes", up.Size).Str("content_type", up.ContentType).Msg("image uploaded")
		return ImageUploadResponse{
			Message: fmt.Sprintf("Successfully uploaded %s", up.Key),
			URL:     up.URL,
			Key:     up.Key,
		}, nil
	})
}

func (h *ImageUploadHandler) readImage(req events.APIGatewayV2HTTPRequest) ([]byte, string, error) {
	ct := header(req, "content-type")
	if ct == "" {
		return nil, "", apperr.Validation("content-type is required")
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.ToLower(ct)
	}

	if mt != "application/json" {
		data, err := rawBody(req)
		if err != nil {
			return nil, "", err
		}
		if err := h.checkOversize(len(data)); err != nil {
			return nil, "", err
		}
		if _, _, err := images.CheckType(ct); err != nil {
			return nil, "", err
		}
		return data, ct, nil
	}

	var in ImageJSONRequest
	if err := decodeJSON(req, &in); err != nil {
		return nil, "", err
	}
	data, err := decodeImageData(in.Image)
	if err != nil {
		return nil, "", err
	}
	if err := h.checkOversize(len(data)); err != nil {
		return nil, "", err
	}
	if _, _, err := images.CheckType(in.MimeType); err != nil {
		return nil, "", err
	}
	return data, in.MimeType, nil
}

// checkOversize rejects bodies over the upload limit whatever their type.
func (h *ImageUploadHandler) checkOversize(n int) error {
	if max := h.uploader.MaxBytes(); max > 0 && int64(n) > max {
		return apperr.Validation("payload too large")
	}
	return nil
}

func decodeImageData(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, apperr.Validation("malformed body")
		}
		s = s[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apperr.Validation("malformed body")
	}
	return b, nil
}
