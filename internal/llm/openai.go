package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

// OpenAI calls an OpenAI-compatible /v1/chat/completions endpoint. Strict
// schemas go through response_format json_schema.
type OpenAI struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAI(baseURL, apiKey, model string, httpClient *http.Client) *OpenAI {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	in := chatRequest{Model: o.model}
	if req.System != "" {
		in.Messages = append(in.Messages, chatMessage{Role: "system", Content: req.System})
	}
	in.Messages = append(in.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.Schema != nil {
		in.ResponseFormat = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   req.Schema.Name,
				"strict": true,
				"schema": req.Schema.Definition,
			},
		}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	res, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", apperr.Upstream("chat completions request", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperr.Upstream("read chat completions response", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", apperr.Upstream("chat completions",
			fmt.Errorf("http %d: %s", res.StatusCode, truncate(string(raw), 800)))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", apperr.Contract("chat completions unmarshal", err)
	}
	if len(out.Choices) == 0 {
		return "", apperr.Contract("chat completions returned no choices", nil)
	}
	msg := out.Choices[0].Message
	if msg.Refusal != "" {
		return "", apperr.Contract("model refused", fmt.Errorf("%s", truncate(msg.Refusal, 400)))
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", apperr.Contract("chat completions returned empty content", nil)
	}
	return text, nil
}
