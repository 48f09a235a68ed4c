package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/spf13/viper"
)

const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"

	DefaultImagesMaxBytes = 5 * 1024 * 1024
)

// Config is read from the Lambda environment once per cold start.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	LLMProvider          string `mapstructure:"LLM_PROVIDER"`
	BedrockModelID       string `mapstructure:"BEDROCK_MODEL_ID"`
	LLMModel             string `mapstructure:"LLM_MODEL"`
	LLMMaxTokens         int    `mapstructure:"LLM_MAX_TOKENS"`
	OpenAIBaseURL        string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIAPIKey         string `mapstructure:"OPENAI_API_KEY"`
	OpenAIAPIKeySSMParam string `mapstructure:"OPENAI_API_KEY_SSM_PARAM"`

	ImagesBucket        string `mapstructure:"IMAGES_BUCKET"`
	ImagesPrefix        string `mapstructure:"IMAGES_PREFIX"`
	ImagesPublicBaseURL string `mapstructure:"IMAGES_PUBLIC_BASE_URL"`
	ImagesMaxBytes      int64  `mapstructure:"IMAGES_MAX_BYTES"`

	RoadmapCacheTable      string `mapstructure:"ROADMAP_CACHE_TABLE"`
	RoadmapCacheTTLSeconds int64  `mapstructure:"ROADMAP_CACHE_TTL_SECONDS"`

	CORSAllowOrigin string `mapstructure:"CORS_ALLOW_ORIGIN"`
}

var defaults = map[string]any{
	"LOG_LEVEL":                 "info",
	"LLM_PROVIDER":              ProviderBedrock,
	"BEDROCK_MODEL_ID":          "",
	"LLM_MODEL":                 "gpt-4o-mini",
	"LLM_MAX_TOKENS":            2048,
	"OPENAI_BASE_URL":           "https://api.openai.com",
	"OPENAI_API_KEY":            "",
	"OPENAI_API_KEY_SSM_PARAM":  "",
	"IMAGES_BUCKET":             "",
	"IMAGES_PREFIX":             "uploads/",
	"IMAGES_PUBLIC_BASE_URL":    "",
	"IMAGES_MAX_BYTES":          DefaultImagesMaxBytes,
	"ROADMAP_CACHE_TABLE":       "",
	"ROADMAP_CACHE_TTL_SECONDS": 86400,
	"CORS_ALLOW_ORIGIN":         "*",
}

// Load reads every key from the environment. Keys are registered as defaults
// so viper's AutomaticEnv picks them up during Unmarshal.
func Load() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.BedrockModelID = strings.TrimSpace(c.BedrockModelID)
	c.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAIBaseURL), "/")
	c.ImagesBucket = strings.TrimSpace(c.ImagesBucket)
	c.ImagesPrefix = strings.TrimSpace(c.ImagesPrefix)
	c.ImagesPublicBaseURL = strings.TrimRight(strings.TrimSpace(c.ImagesPublicBaseURL), "/")
	c.RoadmapCacheTable = strings.TrimSpace(c.RoadmapCacheTable)

	if c.ImagesPublicBaseURL == "" && c.ImagesBucket != "" {
		c.ImagesPublicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", c.ImagesBucket)
	}
	if c.ImagesMaxBytes <= 0 {
		c.ImagesMaxBytes = DefaultImagesMaxBytes
	}
	if c.LLMMaxTokens <= 0 {
		c.LLMMaxTokens = 2048
	}
	if c.RoadmapCacheTTLSeconds <= 0 {
		c.RoadmapCacheTTLSeconds = 86400
	}
	if c.CORSAllowOrigin == "" {
		c.CORSAllowOrigin = "*"
	}
}

// ValidateLLM checks what the completion functions need at cold start.
func (c Config) ValidateLLM() error {
	switch c.LLMProvider {
	case ProviderBedrock:
		if c.BedrockModelID == "" {
			return fmt.Errorf("missing env BEDROCK_MODEL_ID")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" && c.OpenAIAPIKeySSMParam == "" {
			return fmt.Errorf("missing env OPENAI_API_KEY or OPENAI_API_KEY_SSM_PARAM")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

func (c Config) ValidateImages() error {
	if c.ImagesBucket == "" {
		return fmt.Errorf("missing env IMAGES_BUCKET")
	}
	return nil
}

type ParameterClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveSecrets replaces the OpenAI key with the SSM SecureString value when
// a parameter name is configured and no plain key was given.
func (c *Config) ResolveSecrets(ctx context.Context, client ParameterClient) error {
	if c.OpenAIAPIKey != "" || c.OpenAIAPIKeySSMParam == "" {
		return nil
	}
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(c.OpenAIAPIKeySSMParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("ssm GetParameter %s: %w", c.OpenAIAPIKeySSMParam, err)
	}
	if out.Parameter == nil || strings.TrimSpace(aws.ToString(out.Parameter.Value)) == "" {
		return fmt.Errorf("ssm parameter %s is empty", c.OpenAIAPIKeySSMParam)
	}
	c.OpenAIAPIKey = strings.TrimSpace(aws.ToString(out.Parameter.Value))
	return nil
}
