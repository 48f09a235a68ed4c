package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hmrguez/QRiosity/internal/llm"
)

// fakeCompleter returns a canned reply and records every request.
type fakeCompleter struct {
	reply string
	err   error
	reqs  []llm.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testCommon() Common {
	return Common{Log: zerolog.New(io.Discard), CORSOrigin: "*"}
}

func getReq(query map[string]string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{QueryStringParameters: query}
	req.RequestContext.HTTP.Method = http.MethodGet
	return req
}

func postReq(body string, headers map[string]string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{Body: body, Headers: headers}
	req.RequestContext.HTTP.Method = http.MethodPost
	return req
}

func decodeBody(t *testing.T, resp events.APIGatewayV2HTTPResponse) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &m), resp.Body)
	return m
}

func requireCORS(t *testing.T, resp events.APIGatewayV2HTTPResponse) {
	t.Helper()
	require.Equal(t, "*", resp.Headers["access-control-allow-origin"])
	require.Equal(t, "application/json", resp.Headers["content-type"])
	require.NotEmpty(t, resp.Headers["access-control-allow-methods"])
	require.NotEmpty(t, resp.Headers["access-control-allow-headers"])
}
