package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/hmrguez/QRiosity/internal/llm"
)

type AskQuestionHandler struct {
	endpoint
	llm     llm.Completer
	prompts *llm.Prompts
}

func NewAskQuestionHandler(c Common, completer llm.Completer, prompts *llm.Prompts) *AskQuestionHandler {
	return &AskQuestionHandler{endpoint: newEndpoint(c), llm: completer, prompts: prompts}
}

type AskQuestionResponse struct {
	Question string `json:"question"`
}

// Handle serves GET ?topic=... and returns the provider's question verbatim.
func (h *AskQuestionHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return h.run(ctx, req, func(ctx context.Context, log zerolog.Logger) (any, error) {
		topic, err := requireQuery(req, "topic")
		if err != nil {
			return nil, err
		}

		creq, err := h.prompts.Render(llm.PromptAskQuestion, map[string]string{"topic": topic})
		if err != nil {
			return nil, err
		}
		text, err := h.llm.Complete(ctx, creq)
		if err != nil {
			return nil, err
		}

		log.Info().Str("topic", topic).Int("chars", len(text)).Msg("question generated")
		return AskQuestionResponse{Question: text}, nil
	})
}
