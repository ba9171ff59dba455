package application_test

import (
	"context"
	"errors"
	"sync"

	"voice-lights/internal/application"
	"voice-lights/internal/domain"
)

type mockInterpreter struct {
	results map[string]domain.Interpretation
}

func (m *mockInterpreter) Interpret(_ context.Context, text string) domain.Interpretation {
	if r, ok := m.results[text]; ok {
		return r
	}
	return domain.Interpretation{Reason: domain.ReasonNoLightsSpecified, Message: "No specific lights mentioned"}
}

type mockRelay struct {
	mu       sync.Mutex
	bulk     [][]domain.LightCommand
	controls []domain.LightCommand
	status   *domain.RelayStatus
	fail     bool
}

func (m *mockRelay) Status(_ context.Context) (*domain.RelayStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, domain.ErrRelayUnavailable
	}
	return m.status, nil
}

func (m *mockRelay) Control(_ context.Context, light int, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return domain.ErrRelayUnavailable
	}
	m.controls = append(m.controls, domain.LightCommand{Light: light, State: on})
	return nil
}

func (m *mockRelay) Bulk(_ context.Context, commands []domain.LightCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.Join(domain.ErrRelayUnavailable, errors.New("connection refused"))
	}
	m.bulk = append(m.bulk, commands)
	return nil
}

func (m *mockRelay) BulkCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bulk)
}

type mockHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func (m *mockHistory) Record(_ context.Context, e domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryEntry(nil), m.entries...), nil
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	kinds    []domain.NotificationKind
}

func (m *mockNotifier) Notify(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, n.Message)
	m.kinds = append(m.kinds, n.Kind)
	return nil
}

var _ application.RelayController = (*mockRelay)(nil)
