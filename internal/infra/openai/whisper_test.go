package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"voice-lights/internal/infra/openai"
)

func TestWhisperClient_Transcribe(t *testing.T) {
	var gotModel, gotLanguage string
	var gotAudio []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotAudio, _ = io.ReadAll(f)

		json.NewEncoder(w).Encode(map[string]string{"text": "  सब बंद  "})
	}))
	defer server.Close()

	client := openai.NewWhisperClientWithURL("test-key", "", server.URL)

	text, err := client.Transcribe(context.Background(), []byte("RIFF....WAVE"))
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}

	if text != "सब बंद" {
		t.Errorf("text: got %q, want %q", text, "सब बंद")
	}
	if gotModel != "whisper-1" {
		t.Errorf("model: got %q, want whisper-1", gotModel)
	}
	if gotLanguage != "" {
		t.Errorf("language: got %q, want auto-detect", gotLanguage)
	}
	if string(gotAudio) != "RIFF....WAVE" {
		t.Errorf("audio: got %q", gotAudio)
	}
}

func TestWhisperClient_EmptyAudio(t *testing.T) {
	client := openai.NewWhisperClientWithURL("test-key", "en", "http://127.0.0.1:1")

	if _, err := client.Transcribe(context.Background(), nil); err == nil {
		t.Error("expected error for empty audio")
	}
}
