// Package chat implements the conversational assistant that helps citizens
// pick a tool and fill its form.
package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/outils-citoyens/outils-api/internal/llm"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/prompts"
	"github.com/outils-citoyens/outils-api/internal/types"
)

const (
	chatFile = "chat.json"

	temperature   = 0.3
	maxTokens     = 500
	excerptLength = 50
)

// Assistant answers chat requests. A nil completer puts it in offline mode
// where fixed answers are returned.
type Assistant struct {
	completer llm.Completer
	log       *logging.Logger
}

// New creates an Assistant. completer may be nil.
func New(completer llm.Completer, log *logging.Logger) *Assistant {
	if log == nil {
		log = logging.NewNop()
	}
	return &Assistant{completer: completer, log: log}
}

// Respond answers the last message of req. It never fails: backend errors
// are logged and turned into an apology.
func (a *Assistant) Respond(ctx context.Context, req types.ChatRequest) types.ChatResponse {
	var suggested map[string]any
	if req.ToolID != "" {
		suggested = SuggestFields(req.Messages, types.ToolID(req.ToolID))
	}

	if a.completer == nil {
		return types.ChatResponse{Answer: offlineAnswer(req), SuggestedFields: suggested}
	}

	answer, err := a.completer.Complete(ctx, llm.Request{
		System:      SystemPrompt(req.ToolID, req.CurrentFormValues),
		User:        ConversationPrompt(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Tier:        llm.TierLite,
	})
	if err == nil {
		answer = strings.TrimSpace(answer)
	}
	if err != nil || answer == "" {
		a.log.Error("chat completion failed",
			"tool_id", req.ToolID,
			"messages", len(req.Messages),
			"error", err,
		)
		return types.ChatResponse{Answer: prompts.MustGet(chatFile, "apology")}
	}
	return types.ChatResponse{Answer: answer, SuggestedFields: suggested}
}

// SystemPrompt returns the assistant instructions, extended with the state
// of the form being filled when a tool is active.
func SystemPrompt(toolID string, values map[string]any) string {
	var sb strings.Builder
	sb.WriteString(prompts.Format(prompts.MustGet(chatFile, "system"), map[string]string{
		"Tools": toolList(),
	}))

	switch {
	case toolID != "" && len(values) > 0:
		filled, empty := splitFormValues(values)
		sb.WriteString("\n\n")
		sb.WriteString(prompts.Format(prompts.MustGet(chatFile, "form-context"), map[string]string{"Tool": toolID}))
		if len(filled) > 0 {
			sb.WriteString("\n")
			sb.WriteString(prompts.Format(prompts.MustGet(chatFile, "filled-fields"), map[string]string{"Fields": strings.Join(filled, ", ")}))
		}
		if len(empty) > 0 {
			sb.WriteString("\n")
			sb.WriteString(prompts.Format(prompts.MustGet(chatFile, "empty-fields"), map[string]string{"Fields": strings.Join(empty, ", ")}))
		}
		sb.WriteString("\n")
		sb.WriteString(prompts.MustGet(chatFile, "form-help"))
	case toolID != "":
		sb.WriteString("\n\n")
		sb.WriteString(prompts.Format(prompts.MustGet(chatFile, "tool-context"), map[string]string{"Tool": toolID}))
	}
	return sb.String()
}

// ConversationPrompt renders the message history as a transcript.
func ConversationPrompt(messages []types.ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "Utilisateur"
		if m.Role == "assistant" {
			speaker = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, strings.TrimSpace(m.Content)))
	}
	return prompts.Format(prompts.MustGet(chatFile, "conversation"), map[string]string{
		"Transcript": strings.Join(lines, "\n"),
	})
}

func offlineAnswer(req types.ChatRequest) string {
	if req.ToolID != "" {
		return prompts.Format(prompts.MustGet(chatFile, "fallback-tool"), map[string]string{"Tool": req.ToolID})
	}
	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	return prompts.Format(prompts.MustGet(chatFile, "fallback-generic"), map[string]string{
		"Excerpt": excerpt(last, excerptLength),
	})
}

func toolList() string {
	lines := make([]string, 0, len(types.ToolIDs()))
	for _, id := range types.ToolIDs() {
		lines = append(lines, fmt.Sprintf("- %q : %s", string(id), id.Label()))
	}
	return strings.Join(lines, "\n")
}

// splitFormValues sorts form keys into filled and empty, each alphabetically.
func splitFormValues(values map[string]any) (filled, empty []string) {
	for k, v := range values {
		if isFilled(v) {
			filled = append(filled, k)
		} else {
			empty = append(empty, k)
		}
	}
	sort.Strings(filled)
	sort.Strings(empty)
	return filled, empty
}

func isFilled(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
