package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

type BedrockClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock talks to Claude models through InvokeModel using the Anthropic
// messages payload. Strict schemas are enforced by forcing a single tool
// call whose input_schema is the schema.
type Bedrock struct {
	client    BedrockClient
	modelID   string
	maxTokens int
}

func NewBedrock(client BedrockClient, modelID string, maxTokens int) *Bedrock {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Bedrock{client: client, modelID: modelID, maxTokens: maxTokens}
}

type bedrockContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type bedrockResponse struct {
	Content    []bedrockContent `json:"content"`
	StopReason string           `json:"stop_reason"`
}

func (b *Bedrock) payload(req Request) map[string]any {
	p := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        b.maxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": req.Prompt},
				},
			},
		},
	}
	if req.System != "" {
		p["system"] = req.System
	}
	if req.Schema != nil {
		p["tools"] = []map[string]any{
			{
				"name":         req.Schema.Name,
				"description":  req.Schema.Description,
				"input_schema": req.Schema.Definition,
			},
		}
		p["tool_choice"] = map[string]any{"type": "tool", "name": req.Schema.Name}
	}
	return p
}

func (b *Bedrock) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(b.payload(req))
	if err != nil {
		return "", fmt.Errorf("marshal bedrock payload: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", apperr.Upstream("bedrock InvokeModel", err)
	}

	var raw bedrockResponse
	if err := json.Unmarshal(out.Body, &raw); err != nil {
		return "", apperr.Contract("bedrock response unmarshal", err)
	}

	if req.Schema != nil {
		for _, c := range raw.Content {
			if c.Type == "tool_use" && c.Name == req.Schema.Name && len(c.Input) > 0 {
				return string(c.Input), nil
			}
		}
		return "", apperr.Contract("bedrock response has no tool_use block",
			fmt.Errorf("stop_reason=%s body=%s", raw.StopReason, truncate(string(out.Body), 800)))
	}

	var text strings.Builder
	for _, c := range raw.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	s := strings.TrimSpace(text.String())
	if s == "" {
		return "", apperr.Contract("bedrock returned empty text", fmt.Errorf("stop_reason=%s", raw.StopReason))
	}
	return s, nil
}
