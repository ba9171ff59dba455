package application

import (
	"context"

	"voice-lights/internal/domain"
)

type CommandInterpreter interface {
	Interpret(ctx context.Context, text string) domain.Interpretation
}

type RelayController interface {
	Status(ctx context.Context) (*domain.RelayStatus, error)
	Control(ctx context.Context, light int, on bool) error
	Bulk(ctx context.Context, commands []domain.LightCommand) error
}

type HistoryStore interface {
	Record(ctx context.Context, e domain.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// NoopHistory is used when command history is disabled.
type NoopHistory struct{}

func (NoopHistory) Record(_ context.Context, _ domain.HistoryEntry) error { return nil }

func (NoopHistory) Recent(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return []domain.HistoryEntry{}, nil
}

// AudioSource yields recorded commands. A payload starting with
// domain.TextCommandPrefix carries text instead of audio.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextCommand(ctx context.Context) ([]byte, error)
	Name() string
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ domain.Notification) error {
	return nil
}
