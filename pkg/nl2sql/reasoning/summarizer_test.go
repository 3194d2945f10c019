package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm/llmtest"
	"chat-budgeting-be/pkg/nl2sql/resultset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func unitRow(name string, pagu int) resultset.Row {
	return resultset.Row{Columns: []string{"Unit", "Pagu"}, Values: []any{name, pagu}}
}

func TestSummarizeZeroRowsSkipsModel(t *testing.T) {
	provider := &llmtest.MockProvider{}

	s := NewSummarizer(logger.NewNopLogger(), 0)
	text, err := s.Summarize(context.Background(), provider, Input{Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "Kueri berhasil dieksekusi tetapi tidak menghasilkan data.", text)
	provider.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSummarizeReturnsModelTextVerbatim(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, llmtest.PromptContaining(`{"Unit":"Biro Umum","Pagu":900}`, `"pagu terbesar"`), mock.Anything).
		Return("  Biro Umum memiliki pagu terbesar.  ", nil).Once()

	s := NewSummarizer(logger.NewNopLogger(), 2500)
	text, err := s.Summarize(context.Background(), provider, Input{
		Question: "pagu terbesar",
		Rows:     []resultset.Row{unitRow("Biro Umum", 900)},
	})

	require.NoError(t, err)
	assert.Equal(t, "  Biro Umum memiliki pagu terbesar.  ", text)
	provider.AssertExpectations(t)
}

func TestSummarizeFailure(t *testing.T) {
	provider := &llmtest.MockProvider{}
	provider.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	_, err := NewSummarizer(logger.NewNopLogger(), 0).Summarize(context.Background(), provider, Input{
		Rows: []resultset.Row{unitRow("A", 1)},
	})

	var infra *apperror.InfrastructureError
	require.True(t, errors.As(err, &infra))
}

func TestRenderRowsFitsBudget(t *testing.T) {
	rows := []resultset.Row{unitRow("A", 1), unitRow("B", 2)}

	out, err := RenderRows(rows, 2500)
	require.NoError(t, err)
	assert.Equal(t, `[{"Unit":"A","Pagu":1},{"Unit":"B","Pagu":2}]`, out)
}

func TestRenderRowsCutsAtRowBoundary(t *testing.T) {
	rows := make([]resultset.Row, 0, 100)
	for i := 0; i < 100; i++ {
		rows = append(rows, unitRow(strings.Repeat("x", 40), i))
	}

	out, err := RenderRows(rows, 500)
	require.NoError(t, err)

	parts := strings.SplitN(out, "\n", 2)
	require.Len(t, parts, 2)
	assert.LessOrEqual(t, len(parts[0]), 500)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(parts[0]), &decoded))
	assert.Contains(t, parts[1], "dari 100 baris")
	assert.Equal(t, "(menampilkan "+strconv.Itoa(len(decoded))+" dari 100 baris)", parts[1])
}

func TestRenderRowsAlwaysKeepsFirstRow(t *testing.T) {
	rows := []resultset.Row{unitRow("A", 1), unitRow(strings.Repeat("y", 300), 2)}

	out, err := RenderRows(rows, 30)
	require.NoError(t, err)
	assert.Equal(t, "[{\"Unit\":\"A\",\"Pagu\":1}]\n(menampilkan 1 dari 2 baris)", out)
}

func TestRenderRowsCutsOversizedFirstRow(t *testing.T) {
	rows := []resultset.Row{
		{Columns: []string{"Keterangan"}, Values: []any{strings.Repeat("x", 200000)}},
		{Columns: []string{"Keterangan"}, Values: []any{strings.Repeat("y", 200000)}},
	}

	out, err := RenderRows(rows, 2500)
	require.NoError(t, err)

	parts := strings.SplitN(out, "\n", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 2500)
	assert.True(t, strings.HasPrefix(parts[0], `[{"Keterangan":"xxx`))
	assert.True(t, strings.HasSuffix(parts[0], "x]"))
	assert.NotContains(t, parts[0], "y")
	assert.Equal(t, "(menampilkan 1 dari 2 baris) (baris pertama dipotong menjadi 2500 karakter)", parts[1])
}

func TestRenderRowsCutKeepsRunesWhole(t *testing.T) {
	rows := []resultset.Row{{Columns: []string{"Uraian"}, Values: []any{strings.Repeat("é", 100)}}}

	out, err := RenderRows(rows, 42)
	require.NoError(t, err)

	parts := strings.SplitN(out, "\n", 2)
	require.Len(t, parts, 2)
	assert.True(t, utf8.ValidString(parts[0]))
	assert.LessOrEqual(t, len(parts[0]), 42)
	assert.Equal(t, "(baris pertama dipotong menjadi 42 karakter)", parts[1])
}
