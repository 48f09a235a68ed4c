package app

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hmrguez/QRiosity/internal/config"
)

func testEnv(cfg config.Config) *Env {
	return &Env{Cfg: cfg, AWS: aws.Config{Region: "us-east-1"}, Log: zerolog.Nop()}
}

func TestRoadmapCacheOptional(t *testing.T) {
	require.Nil(t, testEnv(config.Config{}).RoadmapCache())
	require.NotNil(t, testEnv(config.Config{RoadmapCacheTable: "roadmaps", RoadmapCacheTTLSeconds: 60}).RoadmapCache())
}

func TestUploaderRequiresBucket(t *testing.T) {
	_, err := testEnv(config.Config{}).Uploader()
	require.EqualError(t, err, "missing env IMAGES_BUCKET")

	up, err := testEnv(config.Config{ImagesBucket: "imgs", ImagesMaxBytes: 10}).Uploader()
	require.NoError(t, err)
	require.EqualValues(t, 10, up.MaxBytes())
}

func TestCompleterValidatesProvider(t *testing.T) {
	_, err := testEnv(config.Config{LLMProvider: config.ProviderBedrock}).Completer(context.Background())
	require.EqualError(t, err, "missing env BEDROCK_MODEL_ID")

	c, err := testEnv(config.Config{LLMProvider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test", OpenAIBaseURL: "http://localhost"}).Completer(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = testEnv(config.Config{LLMProvider: "vertex"}).Completer(context.Background())
	require.Error(t, err)
}
