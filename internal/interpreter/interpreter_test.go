package interpreter_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"voice-lights/internal/domain"
	"voice-lights/internal/interpreter"
)

type stubTranslator struct {
	mu      sync.Mutex
	results map[string]string
	calls   int
}

func (s *stubTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if out, ok := s.results[text]; ok {
		return out, nil
	}
	return "", errors.New("translator offline")
}

func (s *stubTranslator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type panicTranslator struct{}

func (panicTranslator) Translate(_ context.Context, _, _ string) (string, error) {
	panic("boom")
}

func newInterpreter(tr interpreter.Translator) *interpreter.Interpreter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return interpreter.New(tr, 0, logger)
}

func TestDetermineAction_OnKeywords(t *testing.T) {
	in := newInterpreter(&stubTranslator{})

	for _, lang := range interpreter.SupportedLanguages() {
		lex, _ := interpreter.LexiconFor(lang.Code)
		for _, kw := range lex.On {
			if got := in.DetermineAction(context.Background(), kw, lang.Code); got != domain.ActionOn {
				t.Errorf("%s %q: got %q, want on", lang.Code, kw, got)
			}
		}
	}
}

func TestDetermineAction_OffKeywords(t *testing.T) {
	in := newInterpreter(&stubTranslator{})

	for _, lang := range interpreter.SupportedLanguages() {
		lex, _ := interpreter.LexiconFor(lang.Code)
		for _, kw := range lex.Off {
			if got := in.DetermineAction(context.Background(), kw, lang.Code); got != domain.ActionOff {
				t.Errorf("%s %q: got %q, want off", lang.Code, kw, got)
			}
		}
	}
}

func TestDetermineAction_TieUsesTranslationOnce(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]string
		want    domain.Action
	}{
		{
			name: "translator offline",
			want: domain.ActionNone,
		},
		{
			name:    "translation also ties",
			results: map[string]string{"on off": "ON OFF"},
			want:    domain.ActionNone,
		},
		{
			name:    "translation resolves",
			results: map[string]string{"on off": "Switch on the lamp"},
			want:    domain.ActionOn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &stubTranslator{results: tt.results}
			in := newInterpreter(tr)

			got := in.DetermineAction(context.Background(), "on off", "en")
			if got != tt.want {
				t.Errorf("action: got %q, want %q", got, tt.want)
			}
			if tr.Calls() != 1 {
				t.Errorf("translator calls: got %d, want 1", tr.Calls())
			}
		})
	}
}

func TestDetermineAction_NoTranslationWhenDecided(t *testing.T) {
	tr := &stubTranslator{}
	in := newInterpreter(tr)

	if got := in.DetermineAction(context.Background(), "turn off light 2", "en"); got != domain.ActionOff {
		t.Errorf("action: got %q, want off", got)
	}
	if tr.Calls() != 0 {
		t.Errorf("translator calls: got %d, want 0", tr.Calls())
	}
}

func TestTranslate_FallbackIsIdempotent(t *testing.T) {
	in := newInterpreter(&stubTranslator{})

	first := in.Translate(context.Background(), "Turn On Light 1", "en")
	if first != "turn on light 1" {
		t.Errorf("first: got %q, want %q", first, "turn on light 1")
	}
	second := in.Translate(context.Background(), first, "en")
	if second != first {
		t.Errorf("second: got %q, want %q", second, first)
	}
}

func TestTranslate_LowercasesResult(t *testing.T) {
	in := newInterpreter(&stubTranslator{results: map[string]string{"Licht an": "Light On"}})

	if got := in.Translate(context.Background(), "Licht an", "en"); got != "light on" {
		t.Errorf("got %q, want %q", got, "light on")
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		translations map[string]string
		wantSuccess  bool
		wantReason   domain.FailureReason
		wantCommands []domain.LightCommand
		wantLanguage string
		wantMessage  string
	}{
		{
			name:         "english single light",
			text:         "turn on light 1",
			wantSuccess:  true,
			wantCommands: []domain.LightCommand{{Light: 1, State: true}},
			wantLanguage: "en",
			wantMessage:  "Turning on light 1",
		},
		{
			name:        "hindi all off",
			text:        "सब बंद",
			wantSuccess: true,
			wantCommands: []domain.LightCommand{
				{Light: 1, State: false},
				{Light: 2, State: false},
				{Light: 3, State: false},
				{Light: 4, State: false},
			},
			wantLanguage: "hi",
			wantMessage:  "Turning off all lights",
		},
		{
			name:         "english two lights",
			text:         "switch off light 2 and 3",
			wantSuccess:  true,
			wantCommands: []domain.LightCommand{{Light: 2, State: false}, {Light: 3, State: false}},
			wantLanguage: "en",
			wantMessage:  "Turning off lights 2, 3",
		},
		{
			name:         "french number word",
			text:         "allumer la lumière deux",
			wantSuccess:  true,
			wantCommands: []domain.LightCommand{{Light: 2, State: true}},
			wantLanguage: "fr",
			wantMessage:  "Turning on light 2",
		},
		{
			name:         "spanish action from translation",
			text:         "enciende la lámpara dos",
			translations: map[string]string{"enciende la lámpara dos": "Turn on lamp two"},
			wantSuccess:  true,
			wantCommands: []domain.LightCommand{{Light: 2, State: true}},
			wantLanguage: "es",
			wantMessage:  "Turning on light 2",
		},
		{
			name:       "blank",
			text:       "   ",
			wantReason: domain.ReasonEmptyCommand,
		},
		{
			name:       "no keywords anywhere",
			text:       "hello there",
			wantReason: domain.ReasonNoLightsSpecified,
		},
		{
			name:       "light without action",
			text:       "light 3",
			wantReason: domain.ReasonNoActionSpecified,
		},
		{
			name:       "tied action",
			text:       "light 1 on off",
			wantReason: domain.ReasonNoActionSpecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newInterpreter(&stubTranslator{results: tt.translations})

			got := in.Interpret(context.Background(), tt.text)

			if got.Success != tt.wantSuccess {
				t.Fatalf("success: got %v, want %v (%s)", got.Success, tt.wantSuccess, got.Message)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Message == "" {
				t.Error("message is empty")
			}
			if !tt.wantSuccess {
				return
			}
			if !reflect.DeepEqual(got.Commands, tt.wantCommands) {
				t.Errorf("commands: got %v, want %v", got.Commands, tt.wantCommands)
			}
			if got.Language != tt.wantLanguage {
				t.Errorf("language: got %q, want %q", got.Language, tt.wantLanguage)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("message: got %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestInterpret_TranslatedTextReported(t *testing.T) {
	in := newInterpreter(&stubTranslator{results: map[string]string{"सब बंद": "All Off"}})

	got := in.Interpret(context.Background(), "सब बंद")
	if got.Translated != "all off" {
		t.Errorf("translated: got %q, want %q", got.Translated, "all off")
	}
}

func TestInterpret_TranslatesEachTextOnce(t *testing.T) {
	tr := &stubTranslator{}
	in := newInterpreter(tr)

	_ = in.Interpret(context.Background(), "light 1 on off")

	if tr.Calls() != 1 {
		t.Errorf("translator calls: got %d, want 1", tr.Calls())
	}
}

func TestInterpret_RecoversPanics(t *testing.T) {
	in := newInterpreter(panicTranslator{})

	got := in.Interpret(context.Background(), "turn on light 1")

	if got.Success {
		t.Fatal("expected failure")
	}
	if got.Reason != domain.ReasonInternalError {
		t.Errorf("reason: got %q, want internal_error", got.Reason)
	}
	if !strings.Contains(got.Message, "boom") {
		t.Errorf("message should carry the cause: %q", got.Message)
	}
}

func TestInterpret_Concurrent(t *testing.T) {
	in := newInterpreter(&stubTranslator{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := in.Interpret(context.Background(), "turn off all lights")
			if !got.Success || len(got.Commands) != 4 {
				t.Errorf("unexpected result: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestSummary(t *testing.T) {
	tests := []struct {
		action domain.Action
		lights []int
		want   string
	}{
		{domain.ActionOn, []int{4}, "Turning on light 4"},
		{domain.ActionOff, []int{1, 3}, "Turning off lights 1, 3"},
		{domain.ActionOn, []int{1, 2, 3}, "Turning on lights 1, 2, 3"},
		{domain.ActionOff, []int{1, 2, 3, 4}, "Turning off all lights"},
	}

	for _, tt := range tests {
		if got := interpreter.Summary(tt.action, tt.lights); got != tt.want {
			t.Errorf("Summary(%s, %v): got %q, want %q", tt.action, tt.lights, got, tt.want)
		}
	}
}
