package jina

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chat-budgeting-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "0.01"
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func newTestProvider(url string) *JinaProvider {
	p := NewJinaProvider("secret")
	p.baseURL = url
	return p
}

func TestGenerateRequestsColumnDimensions(t *testing.T) {
	tests := []struct {
		taskType string
		task     string
	}{
		{embedding.TaskRetrievalQuery, "retrieval.query"},
		{embedding.TaskRetrievalDocument, "retrieval.passage"},
	}

	for _, tt := range tests {
		t.Run(tt.taskType, func(t *testing.T) {
			var got embeddingRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				fmt.Fprintf(w, `{"data":[{"index":0,"embedding":%s}]}`, vectorJSON(embedding.Dimensions))
			}))
			defer srv.Close()

			res, err := newTestProvider(srv.URL).Generate(context.Background(), "pagu unit A", tt.taskType)

			require.NoError(t, err)
			assert.Len(t, res.Embedding.Values, 768)
			assert.Equal(t, "jina-embeddings-v3", got.Model)
			assert.Equal(t, 768, got.Dimensions)
			assert.Equal(t, tt.task, got.Task)
			assert.Equal(t, []string{"pagu unit A"}, got.Input)
		})
	}
}

func TestGenerateRejectsWrongDimensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"index":0,"embedding":%s}]}`, vectorJSON(1024))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "pagu", embedding.TaskRetrievalQuery)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1024 dimensions")
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid key"}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "pagu", embedding.TaskRetrievalQuery)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
