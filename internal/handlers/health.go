package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
)

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

type HealthHandler struct {
	endpoint
	service string
}

func NewHealthHandler(c Common, service string) *HealthHandler {
	return &HealthHandler{endpoint: newEndpoint(c), service: service}
}

func (h *HealthHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return h.run(ctx, req, func(ctx context.Context, _ zerolog.Logger) (any, error) {
		return HealthResponse{OK: true, Service: h.service}, nil
	})
}
