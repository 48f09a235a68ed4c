package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/hmrguez/QRiosity/internal/config"
)

// Request is one completion call. When Schema is set the provider is asked
// to return a single JSON object conforming to it.
type Request struct {
	System string
	Prompt string
	Schema *Schema
}

type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewFromConfig picks the provider named by LLM_PROVIDER.
func NewFromConfig(cfg config.Config, awsCfg aws.Config) (Completer, error) {
	switch cfg.LLMProvider {
	case config.ProviderBedrock:
		return NewBedrock(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID, cfg.LLMMaxTokens), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel, &http.Client{Timeout: 60 * time.Second}), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
