package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/hmrguez/QRiosity/internal/apperr"
	"github.com/hmrguez/QRiosity/internal/learning"
	"github.com/hmrguez/QRiosity/internal/llm"
)

var roadmapSchema = llm.MustReflectSchema(
	"learning_roadmap",
	"A structured learning roadmap: title, description, difficulty, topics and recommended courses.",
	learning.Roadmap{},
)

// RoadmapStore is the optional roadmap cache.
type RoadmapStore interface {
	Get(ctx context.Context, topic string) (*learning.Roadmap, bool, error)
	Put(ctx context.Context, topic string, r learning.Roadmap) error
}

type GetRoadmapHandler struct {
	endpoint
	llm     llm.Completer
	prompts *llm.Prompts
	cache   RoadmapStore
}

// NewGetRoadmapHandler builds the handler; cache may be nil.
func NewGetRoadmapHandler(c Common, completer llm.Completer, prompts *llm.Prompts, cache RoadmapStore) *GetRoadmapHandler {
	return &GetRoadmapHandler{endpoint: newEndpoint(c), llm: completer, prompts: prompts, cache: cache}
}

func (h *GetRoadmapHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return h.run(ctx, req, func(ctx context.Context, log zerolog.Logger) (any, error) {
		topic, err := requireQuery(req, "topic")
		if err != nil {
			return nil, err
		}

		if h.cache != nil {
			cached, ok, err := h.cache.Get(ctx, topic)
			if err != nil {
				log.Warn().Err(err).Msg("roadmap cache read failed")
			} else if ok {
				log.Info().Str("topic", topic).Bool("cached", true).Msg("roadmap served")
				return cached, nil
			}
		}

		creq, err := h.prompts.Render(llm.PromptGetRoadmap, map[string]string{"topic": topic})
		if err != nil {
			return nil, err
		}
		creq.Schema = roadmapSchema

		text, err := h.llm.Complete(ctx, creq)
		if err != nil {
			return nil, err
		}
		roadmap, err := learning.ParseRoadmap(text)
		if err != nil {
			return nil, apperr.Contract("roadmap does not match schema", err)
		}

		if h.cache != nil {
			if err := h.cache.Put(ctx, topic, roadmap); err != nil {
				log.Warn().Err(err).Msg("roadmap cache write failed")
			}
		}

		log.Info().Str("topic", topic).Int("courses", len(roadmap.Courses)).Msg("roadmap generated")
		return roadmap, nil
	})
}
