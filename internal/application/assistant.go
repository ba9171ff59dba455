package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voice-lights/internal/domain"
)

type CommandHandler interface {
	HandleCommand(ctx context.Context, text, source string) VoiceResponse
}

// Assistant feeds spoken commands from a local audio source into the
// command handler.
type Assistant struct {
	audio   AudioSource
	stt     SpeechToText
	handler CommandHandler
	logger  *slog.Logger
}

func NewAssistant(
	audio AudioSource,
	stt SpeechToText,
	handler CommandHandler,
	logger *slog.Logger,
) *Assistant {
	return &Assistant{
		audio:   audio,
		stt:     stt,
		handler: handler,
		logger:  logger,
	}
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting audio source", "source", a.audio.Name())
	if err := a.audio.Start(ctx); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer a.audio.Stop()

	a.logger.Info("assistant ready, listening for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := a.processOneCommand(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return ctx.Err()
				}
				a.logger.Error("processing command", "error", err)
			}
		}
	}
}

func (a *Assistant) processOneCommand(ctx context.Context) error {
	audioData, err := a.audio.NextCommand(ctx)
	if err != nil {
		return fmt.Errorf("getting audio: %w", err)
	}

	if len(audioData) == 0 {
		return nil
	}

	var text string

	if directText, isText := IsTextCommand(audioData); isText {
		a.logger.Info("received text command directly", "text", directText)
		text = directText
	} else {
		a.logger.Info("received audio", "bytes", len(audioData))

		text, err = a.stt.Transcribe(ctx, audioData)
		if err != nil {
			return fmt.Errorf("transcribing: %w", err)
		}

		a.logger.Info("transcribed", "text", text)
	}

	resp := a.handler.HandleCommand(ctx, text, a.audio.Name())
	if !resp.Success {
		a.logger.Warn("command failed", "text", text, "message", resp.Message)
	}

	return nil
}

// IsTextCommand reports whether data carries a text command rather than audio.
func IsTextCommand(data []byte) (string, bool) {
	if len(data) > len(domain.TextCommandPrefix) && string(data[:len(domain.TextCommandPrefix)]) == domain.TextCommandPrefix {
		return string(data[len(domain.TextCommandPrefix):]), true
	}
	return "", false
}
