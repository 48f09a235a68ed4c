// Package app holds the cold-start wiring shared by the Lambda entry points.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"

	"github.com/hmrguez/QRiosity/internal/config"
	"github.com/hmrguez/QRiosity/internal/db"
	"github.com/hmrguez/QRiosity/internal/handlers"
	"github.com/hmrguez/QRiosity/internal/images"
	"github.com/hmrguez/QRiosity/internal/llm"
	"github.com/hmrguez/QRiosity/internal/logging"
)

type Env struct {
	Cfg config.Config
	AWS aws.Config
	Log zerolog.Logger
}

// Load reads the environment and the default AWS config for one function.
func Load(ctx context.Context, function string) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, function)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Env{Cfg: cfg, AWS: awsCfg, Log: log}, nil
}

func (e *Env) Common() handlers.Common {
	return handlers.Common{Log: e.Log, CORSOrigin: e.Cfg.CORSAllowOrigin}
}

// Completer validates the provider settings, resolves the API key from SSM
// when configured, and builds the provider client.
func (e *Env) Completer(ctx context.Context) (llm.Completer, error) {
	if err := e.Cfg.ValidateLLM(); err != nil {
		return nil, err
	}
	if err := e.Cfg.ResolveSecrets(ctx, ssm.NewFromConfig(e.AWS)); err != nil {
		return nil, err
	}
	return llm.NewFromConfig(e.Cfg, e.AWS)
}

// RoadmapCache returns nil when ROADMAP_CACHE_TABLE is unset.
func (e *Env) RoadmapCache() handlers.RoadmapStore {
	if e.Cfg.RoadmapCacheTable == "" {
		return nil
	}
	ttl := time.Duration(e.Cfg.RoadmapCacheTTLSeconds) * time.Second
	return db.NewRoadmapCache(dynamodb.NewFromConfig(e.AWS), e.Cfg.RoadmapCacheTable, ttl)
}

func (e *Env) Uploader() (*images.Uploader, error) {
	if err := e.Cfg.ValidateImages(); err != nil {
		return nil, err
	}
	return images.NewUploader(s3.NewFromConfig(e.AWS), images.Options{
		Bucket:        e.Cfg.ImagesBucket,
		Prefix:        e.Cfg.ImagesPrefix,
		PublicBaseURL: e.Cfg.ImagesPublicBaseURL,
		MaxBytes:      e.Cfg.ImagesMaxBytes,
	}), nil
}
