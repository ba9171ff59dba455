package application

import (
	"context"
	"errors"
)

var ErrSpeechNotConfigured = errors.New("speech-to-text not configured: set openai.api_key to enable audio transcription")

type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// NoopSTT is used when no transcription service is configured; only text
// commands can be handled then.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ []byte) (string, error) {
	return "", ErrSpeechNotConfigured
}
