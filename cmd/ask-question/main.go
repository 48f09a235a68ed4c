package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hmrguez/QRiosity/internal/app"
	"github.com/hmrguez/QRiosity/internal/handlers"
	"github.com/hmrguez/QRiosity/internal/llm"
)

func main() {
	ctx := context.Background()

	env, err := app.Load(ctx, "ask-question")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	completer, err := env.Completer(ctx)
	if err != nil {
		env.Log.Fatal().Err(err).Msg("init completion provider")
	}

	h := handlers.NewAskQuestionHandler(env.Common(), completer, llm.MustLoadPrompts())
	lambda.Start(h.Handle)
}
