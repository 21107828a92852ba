package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladinglens/internal/config"
	"ladinglens/internal/domain"
	"ladinglens/internal/parser"
	ollama "ladinglens/internal/parser/ollama"
)

func newTestExtractor(serverURL string) *ollama.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:     "ollama",
		DefaultModel: "llama3.1",
		TimeoutSecs:  30,
	}
	return ollama.NewExtractorWithEndpoint(cfg, serverURL)
}

func TestOllamaExtractor_Success(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"content": `{"doc_type":"mbl","bl_number":"MBL-55001","carrier_name":"Maersk Line"}`,
				},
				"finish_reason": "stop",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No API key configured, so no auth header expected.
		assert.Empty(t, r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "llama3.1", reqBody["model"])

		rf := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", rf["type"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	ex := newTestExtractor(server.URL)

	result, err := ex.ExtractFromText(context.Background(), "**MASTER BILL OF LADING**")

	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeMBL, result.DocType)
	require.NotNil(t, result.CarrierName)
	assert.Equal(t, "Maersk Line", *result.CarrierName)
}

func TestOllamaExtractor_AuthHeaderWhenKeySet(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"content": `{"doc_type":"unknown"}`},
				"finish_reason": "stop",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	cfg := &config.ExtractorProviderConfig{Provider: "ollama", APIKey: "secret-key", TimeoutSecs: 30}
	ex := ollama.NewExtractorWithEndpoint(cfg, server.URL)

	_, err := ex.ExtractFromText(context.Background(), "page")
	require.NoError(t, err)
}

func TestOllamaExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	ex := newTestExtractor(server.URL)

	_, err := ex.ExtractFromText(context.Background(), "page")

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "ollama", rlErr.Provider)
}

func TestOllamaExtractor_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	ex := newTestExtractor(server.URL)

	_, err := ex.ExtractFromText(context.Background(), "page")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOllamaExtractor_TruncatedOutput(t *testing.T) {
	responseBody := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"content": `{"doc_type":"hbl"`},
				"finish_reason": "length",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	ex := newTestExtractor(server.URL)

	_, err := ex.ExtractFromText(context.Background(), "page")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_reason: length")
}
