package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"campuslearn/pkg/config"
)

const tutorSystemInstruction = "You are a helpful tutor assistant. Provide clear, educational answers to student questions."

var ErrAssistantDisabled = errors.New("ai answers are disabled via config")

// AssistantService calls the external chat-completion provider that answers
// forum questions. One bounded attempt per request; failures surface to the
// caller and the question stays unanswered.
type AssistantService struct {
	apiKey  string
	model   string
	baseURL string
	enabled bool
	client  *http.Client
}

func NewAssistantService() *AssistantService {
	return &AssistantService{
		apiKey:  config.OpenAIAPIKey,
		model:   config.OpenAIModel,
		baseURL: strings.TrimRight(config.OpenAIBaseURL, "/"),
		enabled: config.IsAIEnabled,
		client:  &http.Client{Timeout: time.Duration(config.AITimeoutSeconds) * time.Second},
	}
}

// NewAssistantServiceWithBase is used by tests to point the client at a stub
// completion endpoint.
func NewAssistantServiceWithBase(baseURL, apiKey, model string) *AssistantService {
	return &AssistantService{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		enabled: true,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *AssistantService) Enabled() bool { return s.enabled }

// GenerateAnswer asks the completion provider for an answer to a student
// question. The context should carry the caller's deadline.
func (s *AssistantService) GenerateAnswer(ctx context.Context, question string) (string, error) {
	if !s.enabled {
		log.Printf("[ai] disabled via config (IsAIEnabled=false)")
		return "", ErrAssistantDisabled
	}
	if strings.TrimSpace(s.apiKey) == "" {
		log.Printf("[ai] OPENAI_API_KEY is not set")
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}

	reqBody := map[string]any{
		"model": s.model,
		"messages": []any{
			map[string]any{"role": "system", "content": tutorSystemInstruction},
			map[string]any{"role": "user", "content": question},
		},
		"max_tokens":  500,
		"temperature": 0.7,
	}
	bodyBytes, _ := json.Marshal(reqBody)

	url := s.baseURL + "/chat/completions"
	log.Printf("[ai] POST %s model=%s", url, s.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
