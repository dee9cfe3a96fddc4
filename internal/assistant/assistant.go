// Package assistant answers free-form questions about certificates through a
// chat-completion model. The collaborator contract is unusual on purpose: it
// never returns an error. Failures come back as prose so the exchange can
// still be logged and shown to the user unchanged.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"certledger/internal/platform/config"
)

// Supported answer languages.
const (
	LangEnglish = "en"
	LangTurkish = "tr"
)

// Answerer is the AI collaborator boundary.
type Answerer interface {
	// Answer returns prose for the question; failures are encoded in the
	// returned text, never raised.
	Answer(ctx context.Context, certificateID, question, lang string) string
}

// OpenAIClient calls the chat completions endpoint.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewOpenAIClient constructs the assistant client from config.
func NewOpenAIClient(cfg config.Assistant) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Answer asks the model about a certificate in the requested language.
func (c *OpenAIClient) Answer(ctx context.Context, certificateID, question, lang string) string {
	system := "You are a certificate verification assistant."
	prompt := fmt.Sprintf(
		"The user asked the following question about certificate ID '%s':\n%q\nPlease provide a clear, concise, and direct answer.",
		certificateID, question,
	)
	if lang == LangTurkish {
		system = "Sen bir sertifika doğrulama asistanısın."
		prompt = fmt.Sprintf(
			"Kullanıcı, '%s' numaralı sertifika hakkında şu soruyu sordu:\n%q\nLütfen anlaşılır, kısa ve doğrudan bir yanıt ver.",
			certificateID, question,
		)
	}

	answer, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return failureAnswer(lang, err)
	}
	return answer
}

func (c *OpenAIClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   150,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("chat completion: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return chat.Choices[0].Message.Content, nil
}

func failureAnswer(lang string, err error) string {
	if lang == LangTurkish {
		return fmt.Sprintf("Hata oluştu: %v", err)
	}
	return fmt.Sprintf("An error occurred: %v", err)
}
