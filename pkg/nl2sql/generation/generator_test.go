package generation

import (
	"context"
	"errors"
	"testing"

	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateSingleShotPrompt(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything,
		llmtest.PromptContaining("drauk_unit.Pagu: total anggaran", "Pertanyaan Pengguna: 5 pagu terbesar", "LIMIT 5"),
		llm.Options{Temperature: 0}).
		Return("```sql\nSELECT Kode_Unit, Pagu FROM drauk_unit ORDER BY Pagu DESC LIMIT 5;\n```", nil).Once()

	g := NewGenerator(logger.NewNopLogger())
	raw, err := g.Generate(context.Background(), provider, Input{
		Question:      "5 pagu terbesar",
		SchemaContext: "drauk_unit.Pagu: total anggaran",
	})

	require.NoError(t, err)
	assert.Contains(t, raw, "```sql")
	provider.AssertExpectations(t)
}

func TestGenerateConversationalUsesHistory(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, llmtest.PromptContaining("Riwayat Percakapan", "(belum ada percakapan sebelumnya)"), mock.Anything).
		Return("SELECT 1;", nil).Once()

	g := NewGenerator(logger.NewNopLogger())
	_, err := g.Generate(context.Background(), provider, Input{Question: "q", Conversational: true})

	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestGenerateFailure(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503"))

	_, err := NewGenerator(logger.NewNopLogger()).Generate(context.Background(), provider, Input{Question: "q"})

	var infra *apperror.InfrastructureError
	require.True(t, errors.As(err, &infra))
}
