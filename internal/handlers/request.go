package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names ("mimeType"), not Go names ("MimeType")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// header looks a header up case-insensitively.
func header(req events.APIGatewayV2HTTPRequest, name string) string {
	if v, ok := req.Headers[name]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func requireQuery(req events.APIGatewayV2HTTPRequest, name string) (string, error) {
	v := strings.TrimSpace(req.QueryStringParameters[name])
	if v == "" {
		return "", apperr.Validationf("%s is required", name)
	}
	return v, nil
}

// rawBody returns the request body, decoding it when API Gateway marked it
// base64.
func rawBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, apperr.Validation("malformed body")
	}
	return b, nil
}

type trimmer interface {
	trim()
}

// decodeJSON parses the body into dst and runs its validate tags. Missing
// fields are reported as "<field> is required".
func decodeJSON(req events.APIGatewayV2HTTPRequest, dst any) error {
	b, err := rawBody(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return apperr.Validation("malformed body")
	}
	if t, ok := dst.(trimmer); ok {
		t.trim()
	}
	if err := validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			if fe.Tag() == "required" {
				return apperr.Validationf("%s is required", fe.Field())
			}
			return apperr.Validationf("%s is invalid", fe.Field())
		}
		return apperr.Validation("malformed body")
	}
	return nil
}
