package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout tagged with the function name.
func New(level, function string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, function)
}

func NewWithWriter(w io.Writer, level, function string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("function", function).
		Logger()
}

// ForRequest derives a child logger carrying the Lambda request id, if any.
func ForRequest(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok || lc.AwsRequestID == "" {
		return base
	}
	return base.With().Str("request_id", lc.AwsRequestID).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
