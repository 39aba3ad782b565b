package factory

import (
	"fmt"

	"neomind-chat-be/pkg/llm"
	"neomind-chat-be/pkg/llm/gemini"
	"neomind-chat-be/pkg/llm/ollama"
)

type Config struct {
	Provider      string
	Model         string
	Temperature   float64
	GeminiAPIKey  string
	GeminiBaseURL string
	OllamaBaseURL string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-1.5-flash"
		}
		return gemini.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiBaseURL, model, cfg.Temperature), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
