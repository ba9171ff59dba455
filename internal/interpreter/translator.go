package interpreter

import (
	"context"
	"fmt"
	"sync"

	"voice-lights/internal/domain"
)

// Translator renders text in the target language. Implementations may fail;
// the interpreter never lets a failure abort interpretation.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// NoopTranslator is used when no translation service is configured.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, _, _ string) (string, error) {
	return "", fmt.Errorf("no translation provider configured: %w", domain.ErrTranslationUnavailable)
}

// memoTranslator remembers translations for the lifetime of one
// interpretation so the same text is sent to the service at most once.
type memoTranslator struct {
	inner Translator

	mu    sync.Mutex
	cache map[string]memoEntry
}

type memoEntry struct {
	text string
	err  error
}

func newMemoTranslator(inner Translator) *memoTranslator {
	return &memoTranslator{inner: inner, cache: make(map[string]memoEntry)}
}

func (m *memoTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	key := target + "\x00" + text

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.cache[key]; ok {
		return e.text, e.err
	}
	out, err := m.inner.Translate(ctx, text, target)
	m.cache[key] = memoEntry{text: out, err: err}
	return out, err
}
