package chat

import (
	"context"
	"errors"
	"strings"

	"neomind-chat-be/internal/entity"
	"neomind-chat-be/internal/pkg/apperror"
	"neomind-chat-be/pkg/llm"
)

var errBlankPrompt = errors.New("prompt must not be blank")

// Orchestrator runs a single question/answer turn against the completion backend.
type Orchestrator struct {
	provider llm.LLMProvider
	prompt   *llm.PromptTemplate
	options  []llm.Option
}

// NewOrchestrator passes options to every completion call.
func NewOrchestrator(provider llm.LLMProvider, prompt *llm.PromptTemplate, options ...llm.Option) *Orchestrator {
	return &Orchestrator{provider: provider, prompt: prompt, options: options}
}

// Ask appends the user turn and the reply to transcript. On any failure the
// transcript is left exactly as it was passed in.
//
// The backend sees only the rendered prompt, not the earlier turns.
func (o *Orchestrator) Ask(ctx context.Context, transcript *entity.Transcript, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperror.Wrap(apperror.ErrValidation, "ask", errBlankPrompt)
	}

	before := transcript.Len()
	transcript.Append(entity.ChatRoleUser, prompt)

	rendered, err := o.prompt.Render(prompt)
	if err != nil {
		transcript.Truncate(before)
		return "", apperror.Wrap(apperror.ErrValidation, "render prompt", err)
	}

	reply, err := o.provider.Generate(ctx, rendered, o.options...)
	if err != nil {
		transcript.Truncate(before)
		return "", apperror.Upstream("generate", err)
	}

	transcript.Append(entity.ChatRoleAssistant, reply)
	return reply, nil
}
