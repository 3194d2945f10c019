// Package reasoning writes the executive summary of a query result.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"chat-budgeting-be/internal/constant"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/nl2sql"
	"chat-budgeting-be/pkg/nl2sql/resultset"
)

const defaultCharBudget = 2500

type Summarizer struct {
	llmLog     logger.ILogger
	charBudget int
}

func NewSummarizer(llmLog logger.ILogger, charBudget int) *Summarizer {
	if charBudget <= 0 {
		charBudget = defaultCharBudget
	}
	return &Summarizer{llmLog: llmLog, charBudget: charBudget}
}

type Input struct {
	Question       string
	Rows           []resultset.Row
	History        string
	Conversational bool
}

// Summarize returns the canned empty-result sentence without calling the
// model when there are no rows.
func (s *Summarizer) Summarize(ctx context.Context, provider llm.LLMProvider, in Input) (string, error) {
	if len(in.Rows) == 0 {
		return constant.EmptyResultMessage, nil
	}

	dataRaw, err := RenderRows(in.Rows, s.charBudget)
	if err != nil {
		return "", apperror.Infrastructure("render rows", err)
	}

	template := constant.ReasoningPrompt
	vars := map[string]string{
		constant.PlaceholderQuestion: in.Question,
		constant.PlaceholderDataRaw:  dataRaw,
	}
	if in.Conversational {
		template = constant.ReasoningConversationPrompt
		history := in.History
		if strings.TrimSpace(history) == "" {
			history = constant.EmptyHistoryLabel
		}
		vars[constant.PlaceholderHistory] = history
	}
	prompt := nl2sql.RenderPrompt(template, vars)

	text, err := provider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return "", apperror.Infrastructure("summarize rows", err)
	}

	s.llmLog.Debug("REASONING", "Summary generated", map[string]interface{}{
		"question": in.Question,
		"rows":     len(in.Rows),
		"summary":  text,
	})
	return text, nil
}

// RenderRows encodes rows as a JSON array that fits in budget characters,
// cutting only between rows. The first row is always kept; if it alone
// exceeds the budget its encoding is cut to fit. When anything is dropped a
// note with the shown and total counts follows the array.
func RenderRows(rows []resultset.Row, budget int) (string, error) {
	encoded := make([][]byte, 0, len(rows))
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return "", err
		}
		encoded = append(encoded, b)
	}

	var sb strings.Builder
	sb.WriteByte('[')
	kept := 0
	firstCut := false
	for i, b := range encoded {
		size := len(b) + 1 // closing bracket
		if i > 0 {
			size++ // separator
		}
		if sb.Len()+size > budget {
			if kept > 0 {
				break
			}
			b = cutRunes(b, budget-2)
			firstCut = true
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.Write(b)
		kept++
		if firstCut {
			break
		}
	}
	sb.WriteByte(']')

	var notes []string
	if kept < len(rows) {
		notes = append(notes, fmt.Sprintf(constant.TruncatedRowsFormat, kept, len(rows)))
	}
	if firstCut {
		notes = append(notes, fmt.Sprintf(constant.TruncatedFirstRowFormat, budget))
	}
	if len(notes) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(notes, " "))
	}
	return sb.String(), nil
}

// cutRunes returns at most n bytes of b without splitting a UTF-8 sequence.
func cutRunes(b []byte, n int) []byte {
	if n <= 0 {
		return nil
	}
	if len(b) <= n {
		return b
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}
