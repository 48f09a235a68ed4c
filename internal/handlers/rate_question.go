package handlers

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/hmrguez/QRiosity/internal/apperr"
	"github.com/hmrguez/QRiosity/internal/learning"
	"github.com/hmrguez/QRiosity/internal/llm"
)

var ratingSchema = llm.MustReflectSchema(
	"question_rating",
	"A 1 to 10 rating of an answer to a question, with a short insight.",
	learning.Rating{},
)

type RateQuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (r *RateQuestionRequest) trim() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
}

type RateQuestionHandler struct {
	endpoint
	llm     llm.Completer
	prompts *llm.Prompts
}

func NewRateQuestionHandler(c Common, completer llm.Completer, prompts *llm.Prompts) *RateQuestionHandler {
	return &RateQuestionHandler{endpoint: newEndpoint(c), llm: completer, prompts: prompts}
}

func (h *RateQuestionHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return h.run(ctx, req, func(ctx context.Context, log zerolog.Logger) (any, error) {
		var in RateQuestionRequest
		if err := decodeJSON(req, &in); err != nil {
			return nil, err
		}

		creq, err := h.prompts.Render(llm.PromptRateQuestion, map[string]string{
			"question": in.Question,
			"answer":   in.Answer,
		})
		if err != nil {
			return nil, err
		}
		creq.Schema = ratingSchema

		text, err := h.llm.Complete(ctx, creq)
		if err != nil {
			return nil, err
		}
		rating, err := learning.ParseRating(text)
		if err != nil {
			return nil, apperr.Contract("rating does not match schema", err)
		}

		log.Info().Int("rating", rating.Rating).Msg("answer rated")
		return rating, nil
	})
}
