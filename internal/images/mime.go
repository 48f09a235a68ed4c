package images

import (
	"mime"
	"strings"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

// extensions is the allow-list. The caller declares the type; content is
// not sniffed.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// CheckType normalizes a declared Content-Type and returns it with its file
// extension, or a validation error if it is not an allowed image type.
func CheckType(contentType string) (mimeType, ext string, err error) {
	raw := strings.TrimSpace(contentType)
	if raw == "" {
		return "", "", apperr.Validation("content-type is required")
	}
	mt, _, perr := mime.ParseMediaType(raw)
	if perr != nil {
		mt = raw
	}
	mt = strings.ToLower(mt)

	ext, ok := extensions[mt]
	if !ok {
		return "", "", apperr.Validationf("unsupported content type: %s", mt)
	}
	return mt, ext, nil
}
