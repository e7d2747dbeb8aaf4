package types

import "github.com/go-playground/validator/v10"

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=5000"`
}

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	ToolID            string         `json:"tool_id,omitempty"`
	Messages          []ChatMessage  `json:"messages" validate:"required,min=1,max=50,dive"`
	CurrentFormValues map[string]any `json:"current_form_values,omitempty"`
}

// ChatResponse is the assistant answer plus optional form pre-fill hints.
type ChatResponse struct {
	Answer          string         `json:"answer"`
	SuggestedFields map[string]any `json:"suggested_fields"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
