package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"edadash/domain/chat"
	"edadash/internal/errors"

	"github.com/tidwall/gjson"
)

// ChatClient sends a conversation to a hosted chat-completion model and
// returns the assistant's reply.
type ChatClient interface {
	Complete(ctx context.Context, apiKey string, messages []chat.Message) (chat.Message, error)
}

// Config holds the fixed settings of the hosted model
type Config struct {
	Model   string
	BaseURL string
	Timeout time.Duration // zero means no timeout
}

// NewOpenAIClient creates a chat client for an OpenAI-compatible endpoint
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if strings.TrimSpace(config.Model) == "" {
		return nil, errors.ConfigInvalid("missing chat model")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		Model:      config.Model,
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// OpenAIClient implements ChatClient for the Chat Completions API. The API
// key is supplied per call because every user brings their own.
type OpenAIClient struct {
	Model      string
	BaseURL    string
	httpClient *http.Client
}

type completionRequest struct {
	Model    string         `json:"model"`
	Messages []chat.Message `json:"messages"`
}

// Complete posts the whole message log, unchanged, and returns the first choice
func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, messages []chat.Message) (chat.Message, error) {
	if strings.TrimSpace(apiKey) == "" {
		return chat.Message{}, errors.MissingCredential(chat.MissingKeyNotice)
	}

	raw, err := json.Marshal(completionRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "marshal chat request")
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "build chat request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return chat.Message{}, errors.ExternalServiceError("openai", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chat.Message{}, errors.ExternalServiceError("openai", fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := gjson.GetBytes(body, "error.message").String()
		if detail == "" {
			detail = string(body)
		}
		return chat.Message{}, errors.ExternalServiceError("openai", fmt.Errorf("http %d: %s", resp.StatusCode, detail))
	}

	if !gjson.ValidBytes(body) {
		return chat.Message{}, errors.ExternalServiceError("openai", fmt.Errorf("invalid JSON response"))
	}
	msg := gjson.GetBytes(body, "choices.0.message")
	if !msg.Exists() {
		return chat.Message{}, errors.ExternalServiceError("openai", fmt.Errorf("response missing choices"))
	}

	role := chat.Role(msg.Get("role").String())
	if role == "" {
		role = chat.RoleAssistant
	}
	return chat.Message{Role: role, Content: msg.Get("content").String()}, nil
}

// MockChatClient is a canned ChatClient for tests and offline runs
type MockChatClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
	Calls    [][]chat.Message
}

func (m *MockChatClient) Complete(ctx context.Context, apiKey string, messages []chat.Message) (chat.Message, error) {
	sent := make([]chat.Message, len(messages))
	copy(sent, messages)
	m.Calls = append(m.Calls, sent)

	if m.Error != nil {
		return chat.Message{}, m.Error
	}
	if m.Response != "" {
		return chat.Message{Role: chat.RoleAssistant, Content: m.Response}, nil
	}
	return chat.Message{Role: chat.RoleAssistant, Content: "Sure, here is a summary of your data."}, nil
}
