package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hmrguez/QRiosity/internal/config"
	"github.com/hmrguez/QRiosity/internal/handlers"
	"github.com/hmrguez/QRiosity/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	h := handlers.NewHealthHandler(handlers.Common{
		Log:        logging.New(cfg.LogLevel, "health"),
		CORSOrigin: cfg.CORSAllowOrigin,
	}, "qriosity-ai")
	lambda.Start(h.Handle)
}
