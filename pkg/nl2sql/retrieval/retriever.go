// Package retrieval finds the schema passages relevant to a question.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"chat-budgeting-be/internal/repository/contract"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/embedding"
)

type Retriever struct {
	embedder embedding.EmbeddingProvider
	docs     contract.SchemaDocumentRepository
	topK     int
}

func NewRetriever(embedder embedding.EmbeddingProvider, docs contract.SchemaDocumentRepository, topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{embedder: embedder, docs: docs, topK: topK}
}

// Retrieve embeds question and joins the content of the top k schema
// documents, most similar first, with newlines.
func (r *Retriever) Retrieve(ctx context.Context, question string) (string, error) {
	vec, err := r.embedder.Generate(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return "", apperror.Infrastructure("embed question", err)
	}
	if vec == nil || len(vec.Embedding.Values) == 0 {
		return "", apperror.Infrastructure("embed question", fmt.Errorf("empty embedding"))
	}

	docs, err := r.docs.SearchSimilarWithScore(ctx, vec.Embedding.Values, r.topK)
	if err != nil {
		return "", apperror.Infrastructure("search schema documents", err)
	}

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Document.Content)
	}
	return strings.Join(parts, "\n"), nil
}
