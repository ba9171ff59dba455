package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voice-lights/internal/domain"
	"voice-lights/internal/infra/relay"
)

func TestClient_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"light1": true,
			"light2": false,
			"light3": true,
			"light4": false,
			"ip":     "10.0.0.5",
			"wifi":   "home",
			"signal": -61,
			"mac":    "AA:BB:CC:DD:EE:FF",
		})
	}))
	defer server.Close()

	client := relay.NewClient(server.URL, time.Second)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}

	want := domain.LightStatus{1: true, 2: false, 3: true, 4: false}
	for id, on := range want {
		if status.Lights[id] != on {
			t.Errorf("light %d: got %v, want %v", id, status.Lights[id], on)
		}
	}
	if status.Info.IP != "10.0.0.5" {
		t.Errorf("ip: got %s, want 10.0.0.5", status.Info.IP)
	}
	if status.Info.Signal != -61 {
		t.Errorf("signal: got %d, want -61", status.Info.Signal)
	}
}

func TestClient_Control(t *testing.T) {
	var gotRelay, gotAction string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/control" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		gotRelay = r.URL.Query().Get("relay")
		gotAction = r.URL.Query().Get("action")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "relay": 3, "state": "off"})
	}))
	defer server.Close()

	client := relay.NewClient(server.URL, time.Second)

	if err := client.Control(context.Background(), 3, false); err != nil {
		t.Fatalf("Control error: %v", err)
	}
	if gotRelay != "3" || gotAction != "off" {
		t.Errorf("query: got relay=%s action=%s, want relay=3 action=off", gotRelay, gotAction)
	}
}

func TestClient_ControlRejectsInvalidLight(t *testing.T) {
	client := relay.NewClient("http://127.0.0.1:1", time.Second)

	if err := client.Control(context.Background(), 5, true); err == nil {
		t.Error("expected error for light 5")
	}
}

func TestClient_Bulk(t *testing.T) {
	var received []map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bulk" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			http.Error(w, `{"error":"Invalid JSON"}`, http.StatusBadRequest)
			return
		}
		results := make([]map[string]any, 0, len(received))
		for _, a := range received {
			results = append(results, map[string]any{"relay": a["relay"], "state": a["action"]})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer server.Close()

	client := relay.NewClient(server.URL, time.Second)

	err := client.Bulk(context.Background(), []domain.LightCommand{
		{Light: 1, State: true},
		{Light: 4, State: false},
	})
	if err != nil {
		t.Fatalf("Bulk error: %v", err)
	}

	if len(received) != 2 {
		t.Fatalf("payload size: got %d, want 2", len(received))
	}
	if received[0]["relay"] != float64(1) || received[0]["action"] != "on" {
		t.Errorf("first action: got %v", received[0])
	}
	if received[1]["relay"] != float64(4) || received[1]["action"] != "off" {
		t.Errorf("second action: got %v", received[1])
	}
}

func TestClient_BulkRelayDown(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := relay.NewClient(server.URL, time.Second)

	err := client.Bulk(context.Background(), []domain.LightCommand{{Light: 1, State: true}})
	if !errors.Is(err, domain.ErrRelayUnavailable) {
		t.Fatalf("error: got %v, want ErrRelayUnavailable", err)
	}
	if calls != 2 {
		t.Errorf("attempts: got %d, want 2", calls)
	}
}

func TestClient_BadRequestNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Relay must be 1-4"}`))
	}))
	defer server.Close()

	client := relay.NewClient(server.URL, time.Second)

	err := client.Control(context.Background(), 1, true)
	if err == nil || !strings.Contains(err.Error(), "Relay must be 1-4") {
		t.Errorf("error: got %v", err)
	}
	if calls != 1 {
		t.Errorf("attempts: got %d, want 1", calls)
	}
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"light1":false}`))
	}))

	client := relay.NewClient(server.URL, time.Second)
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping error: %v", err)
	}

	server.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected error after server closed")
	}
}
