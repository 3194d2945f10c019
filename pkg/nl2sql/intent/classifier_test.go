package intent

import (
	"context"
	"errors"
	"testing"

	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name           string
		classification string
		conversational bool
		accepted       bool
	}{
		{"company data single shot", "data_perusahaan", false, true},
		{"company data conversational", "data_perusahaan", true, true},
		{"general topic rejected", "pengetahuan_umum", false, false},
		{"continuation rejected in single shot", "lanjutan", false, false},
		{"continuation accepted in conversation", "lanjutan", true, true},
		{"noise rejected", "saya tidak tahu", true, false},
		{"marker inside sentence", "kategori: data_perusahaan", false, true},
		{"marker in upper case", "DATA_PERUSAHAAN", false, true},
		{"continuation in title case", "Lanjutan", true, true},
		{"rejection keeps case", "Pengetahuan_Umum", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.classification, tt.conversational)
			if tt.accepted {
				assert.NoError(t, err)
				return
			}
			var rel *apperror.DomainRelevanceError
			require.True(t, errors.As(err, &rel))
			assert.Equal(t, tt.classification, rel.Classification)
		})
	}
}

func TestClassifyTrimsButKeepsCase(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, llmtest.PromptContaining("Pertanyaan Pengguna: pagu unit A"), mock.Anything).
		Return("  Data_Perusahaan\n", nil).Once()

	c := NewClassifier(logger.NewNopLogger())
	got, err := c.Classify(context.Background(), provider, "pagu unit A", "", false)

	require.NoError(t, err)
	assert.Equal(t, "Data_Perusahaan", got)
	assert.NoError(t, Decide(got, false))
	provider.AssertExpectations(t)
}

func TestClassifyConversationalIncludesHistory(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, llmtest.PromptContaining("Pengguna: pagu terbesar", "lanjutan"), mock.Anything).
		Return("lanjutan", nil).Once()

	c := NewClassifier(logger.NewNopLogger())
	got, err := c.Classify(context.Background(), provider, "kalau terkecil?", "Pengguna: pagu terbesar\nAI: Biro Umum", true)

	require.NoError(t, err)
	assert.Equal(t, "lanjutan", got)
	provider.AssertExpectations(t)
}

func TestClassifyProviderFailureIsInfrastructure(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection reset"))

	c := NewClassifier(logger.NewNopLogger())
	_, err := c.Classify(context.Background(), provider, "pagu", "", false)

	var infra *apperror.InfrastructureError
	require.True(t, errors.As(err, &infra))
	assert.Equal(t, 500, apperror.Status(err))
}
