package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hmrguez/QRiosity/internal/app"
	"github.com/hmrguez/QRiosity/internal/handlers"
)

func main() {
	ctx := context.Background()

	env, err := app.Load(ctx, "image-upload")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	uploader, err := env.Uploader()
	if err != nil {
		env.Log.Fatal().Err(err).Msg("init uploader")
	}

	h := handlers.NewImageUploadHandler(env.Common(), uploader)
	lambda.Start(h.Handle)
}
