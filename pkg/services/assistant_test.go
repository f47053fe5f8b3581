package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateAnswerParsesCompletion(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": "  A stack is LIFO.  "}},
			},
		})
	}))
	defer srv.Close()

	s := NewAssistantServiceWithBase(srv.URL, "test-key", "gpt-4o-mini")
	answer, err := s.GenerateAnswer(context.Background(), "What is a stack?")
	if err != nil {
		t.Fatalf("GenerateAnswer: %v", err)
	}
	if answer != "A stack is LIFO." {
		t.Fatalf("answer = %q", answer)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v", gotBody["model"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(msgs))
	}
}

func TestGenerateAnswerProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewAssistantServiceWithBase(srv.URL, "test-key", "gpt-4o-mini")
	if _, err := s.GenerateAnswer(context.Background(), "q"); err == nil {
		t.Fatal("expected error on non-2xx status")
	} else if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should carry status: %v", err)
	}
}

func TestGenerateAnswerEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	s := NewAssistantServiceWithBase(srv.URL, "test-key", "gpt-4o-mini")
	if _, err := s.GenerateAnswer(context.Background(), "q"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestGenerateAnswerDisabled(t *testing.T) {
	s := &AssistantService{enabled: false}
	if _, err := s.GenerateAnswer(context.Background(), "q"); err != ErrAssistantDisabled {
		t.Fatalf("expected ErrAssistantDisabled, got %v", err)
	}
}
