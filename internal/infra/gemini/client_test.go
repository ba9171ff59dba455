package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voice-lights/internal/domain"
	"voice-lights/internal/infra/gemini"
)

func TestClient_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("key") != "test-key" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "\"Turn on all the lights\""}}}},
			},
		})
	}))
	defer server.Close()

	client := gemini.NewClientWithURL("test-key", "gemini-test", server.URL, time.Second)

	got, err := client.Translate(context.Background(), "allumer toutes les lumières", "en")
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if got != "Turn on all the lights" {
		t.Errorf("translation: got %q, want %q", got, "Turn on all the lights")
	}
}

func TestClient_TranslateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded", "code": 429},
		})
	}))
	defer server.Close()

	client := gemini.NewClientWithURL("test-key", "gemini-test", server.URL, time.Second)

	_, err := client.Translate(context.Background(), "hola", "en")
	if !errors.Is(err, domain.ErrTranslationUnavailable) {
		t.Errorf("error: got %v, want ErrTranslationUnavailable", err)
	}
}
