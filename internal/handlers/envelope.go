package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/hmrguez/QRiosity/internal/apperr"
	"github.com/hmrguez/QRiosity/internal/logging"
)

// Common holds what every function shares.
type Common struct {
	Log        zerolog.Logger
	CORSOrigin string
}

type operation func(ctx context.Context, log zerolog.Logger) (any, error)

// endpoint is the skeleton every handler runs through: preflight, the
// operation itself, error mapping and the JSON envelope with CORS headers.
type endpoint struct {
	log        zerolog.Logger
	corsOrigin string
	errorBody  func(msg string) any
}

func newEndpoint(c Common) endpoint {
	origin := c.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return endpoint{
		log:        c.Log,
		corsOrigin: origin,
		errorBody:  func(msg string) any { return map[string]any{"error": msg} },
	}
}

func (e endpoint) run(ctx context.Context, req events.APIGatewayV2HTTPRequest, op operation) (resp events.APIGatewayV2HTTPResponse, _ error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return e.preflight(), nil
	}

	log := logging.ForRequest(ctx, e.log)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("handler panicked")
			resp = e.jsonResp(http.StatusInternalServerError, e.errorBody(apperr.PublicMessage(fmt.Errorf("panic: %v", r))))
		}
	}()

	out, err := op(ctx, log)
	if err != nil {
		status := statusFor(err)
		ev := log.Warn()
		if status >= 500 {
			ev = log.Error()
		}
		ev.Err(err).Str("kind", apperr.KindOf(err).String()).Int("status", status).Msg("request failed")
		return e.jsonResp(status, e.errorBody(apperr.PublicMessage(err))), nil
	}
	return e.jsonResp(http.StatusOK, out), nil
}

func statusFor(err error) int {
	if apperr.KindOf(err) == apperr.KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (e endpoint) headers() map[string]string {
	return map[string]string{
		"content-type":                 "application/json",
		"access-control-allow-origin":  e.corsOrigin,
		"access-control-allow-methods": "GET, POST, OPTIONS",
		"access-control-allow-headers": "Content-Type, Authorization",
	}
}

func (e endpoint) preflight() events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusNoContent,
		Headers:    e.headers(),
	}
}

func (e endpoint) jsonResp(status int, v any) events.APIGatewayV2HTTPResponse {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"internal error"}`)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    e.headers(),
		Body:       string(b),
	}
}
