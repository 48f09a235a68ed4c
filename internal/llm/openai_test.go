package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hmrguez/QRiosity/internal/apperr"
)

func TestOpenAIComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"What is a channel?"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL+"/", "sk-test", "gpt-4o-mini", srv.Client())
	out, err := c.Complete(context.Background(), Request{System: "be brief", Prompt: "Give me a question about Go. No context."})
	require.NoError(t, err)
	require.Equal(t, "What is a channel?", out)

	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "user", got.Messages[1].Role)
	require.Nil(t, got.ResponseFormat)
}

func TestOpenAIStrictSchema(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"rating\":3,\"insight\":\"weak\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "", "gpt-4o-mini", srv.Client())
	schema := &Schema{Name: "rating", Definition: map[string]any{"type": "object"}}
	out, err := c.Complete(context.Background(), Request{Prompt: "p", Schema: schema})
	require.NoError(t, err)
	require.JSONEq(t, `{"rating":3,"insight":"weak"}`, out)

	rf := got["response_format"].(map[string]any)
	require.Equal(t, "json_schema", rf["type"])
	js := rf["json_schema"].(map[string]any)
	require.Equal(t, "rating", js["name"])
	require.Equal(t, true, js["strict"])
}

func TestOpenAIHTTPErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided: sk-***"}}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "bad", "gpt-4o-mini", srv.Client())
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	require.NotContains(t, apperr.PublicMessage(err), "API key")
}

func TestOpenAIUnreachableIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewOpenAI(url, "k", "m", nil)
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestOpenAIRefusalIsContractError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null,"refusal":"I can't help with that."}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "k", "m", srv.Client())
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Equal(t, apperr.KindUpstreamContract, apperr.KindOf(err))
}

func TestOpenAINoChoicesIsContractError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "k", "m", srv.Client())
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Equal(t, apperr.KindUpstreamContract, apperr.KindOf(err))
}
