package ai

import (
	"fmt"
	"strings"

	"github.com/mindwell-ai/mindwell/backend/internal/analysis/mood"
	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
)

// HistoryWindow is how many prior exchanges are rendered into the system prompt.
const HistoryWindow = 3

const systemPreamble = `You are MindWell AI, a compassionate mental health companion for youth aged 13-25.
Your role is to provide safe, empathetic, and supportive guidance.
Speak like a trained psychologist: validate feelings, ask gentle questions, and avoid judgment.`

// BuildSystemPrompt renders the system prompt for one chat turn. User text is
// embedded verbatim.
func BuildSystemPrompt(score int, userName string, history []chat.Exchange) string {
	var builder strings.Builder
	builder.WriteString(systemPreamble)
	builder.WriteString("\n\nUser Context:\n")
	builder.WriteString(fmt.Sprintf("- Name: %s\n", userName))
	builder.WriteString(fmt.Sprintf("- Current mood: %d/10 (%s)\n", score, mood.Describe(score)))

	if block := renderHistory(history); block != "" {
		builder.WriteString("\nHere is the recent conversation:\n")
		builder.WriteString(block)
		builder.WriteString("\n")
	}

	builder.WriteString("\nNow, respond to:\n")
	builder.WriteString(fmt.Sprintf("User: %s\n", userName))
	return builder.String()
}

func renderHistory(history []chat.Exchange) string {
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history))
	for _, exchange := range history {
		lines = append(lines, fmt.Sprintf("User: %s\nAI: %s", exchange.UserText, exchange.AIText))
	}
	return strings.Join(lines, "\n")
}
