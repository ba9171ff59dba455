package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-lights/internal/domain"
)

const msgInternalError = "Sorry, something went wrong while processing the command"

var (
	ErrInvalidLight  = errors.New("light must be between 1 and 4")
	ErrInvalidAction = errors.New("action must be on or off")
)

// VoiceResponse is what a caller sees for one voice command.
type VoiceResponse struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Reason     domain.FailureReason  `json:"reason,omitempty"`
	Language   string                `json:"language,omitempty"`
	Translated string                `json:"translated,omitempty"`
	Commands   []domain.LightCommand `json:"commands,omitempty"`
}

// LightService executes interpreted commands on the relay and owns the
// shared light state.
type LightService struct {
	interpreter CommandInterpreter
	relay       RelayController
	state       *StateCache
	history     HistoryStore
	notifier    Notifier
	logger      *slog.Logger
}

func NewLightService(
	interpreter CommandInterpreter,
	relay RelayController,
	history HistoryStore,
	notifier Notifier,
	logger *slog.Logger,
) *LightService {
	if history == nil {
		history = NoopHistory{}
	}
	if notifier == nil {
		notifier = &NoopNotifier{}
	}
	return &LightService{
		interpreter: interpreter,
		relay:       relay,
		state:       NewStateCache(),
		history:     history,
		notifier:    notifier,
		logger:      logger,
	}
}

// HandleCommand interprets text and, on success, relays the resulting
// commands. source names where the command came from (web, microphone, ...).
func (s *LightService) HandleCommand(ctx context.Context, text, source string) VoiceResponse {
	text = strings.TrimSpace(text)
	s.logger.Info("received command", "text", text, "source", source)

	result := s.interpreter.Interpret(ctx, text)
	resp := VoiceResponse{
		Success:    result.Success,
		Message:    result.Message,
		Reason:     result.Reason,
		Language:   result.Language,
		Translated: result.Translated,
	}

	if !result.Success {
		if result.Reason == domain.ReasonInternalError {
			s.logger.Error("interpreting command", "text", text, "error", result.Message)
			resp.Message = msgInternalError
		}
		s.logger.Warn("command not understood", "text", text, "reason", result.Reason)
		s.record(ctx, text, source, resp)
		return resp
	}

	s.logger.Info("command interpreted",
		"language", result.Language,
		"translated", result.Translated,
		"action", result.Action,
		"lights", len(result.Commands),
	)

	if err := s.relay.Bulk(ctx, result.Commands); err != nil {
		s.logger.Error("relaying commands", "error", err)
		resp.Success = false
		resp.Message = "Relay unavailable: lights were not switched"
		s.notify(ctx, domain.Notification{
			Kind:    domain.NotifyRelayFailure,
			Message: fmt.Sprintf("Could not switch lights: %s", err.Error()),
			Command: text,
		})
		s.record(ctx, text, source, resp)
		return resp
	}

	s.state.Apply(result.Commands)
	resp.Commands = result.Commands

	s.notify(ctx, domain.Notification{
		Kind:    domain.NotifyCommandExecuted,
		Message: resp.Message,
		Command: text,
	})
	s.record(ctx, text, source, resp)
	return resp
}

// SetLight switches a single light.
func (s *LightService) SetLight(ctx context.Context, light int, action domain.Action) (string, error) {
	if !domain.ValidLight(light) {
		return "", ErrInvalidLight
	}
	if action != domain.ActionOn && action != domain.ActionOff {
		return "", ErrInvalidAction
	}

	if err := s.relay.Control(ctx, light, action.State()); err != nil {
		s.logger.Error("controlling light", "light", light, "error", err)
		return "", fmt.Errorf("controlling light %d: %w", light, err)
	}

	s.state.Apply([]domain.LightCommand{{Light: light, State: action.State()}})
	return fmt.Sprintf("Light %d turned %s", light, action), nil
}

// SetAll switches every light.
func (s *LightService) SetAll(ctx context.Context, on bool) (string, error) {
	commands := make([]domain.LightCommand, 0, domain.MaxLight)
	for _, id := range domain.AllLights() {
		commands = append(commands, domain.LightCommand{Light: id, State: on})
	}

	if err := s.relay.Bulk(ctx, commands); err != nil {
		s.logger.Error("switching all lights", "on", on, "error", err)
		return "", fmt.Errorf("switching all lights: %w", err)
	}

	s.state.Apply(commands)
	return fmt.Sprintf("All lights %s", strings.ToUpper(string(domain.ActionFromState(on)))), nil
}

func (s *LightService) Status() domain.LightStatus {
	return s.state.Snapshot()
}

func (s *LightService) RelayInfo() domain.RelayInfo {
	return s.state.Info()
}

func (s *LightService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return s.history.Recent(ctx, limit)
}

// Refresh replaces the cached state with the relay's report.
func (s *LightService) Refresh(ctx context.Context) error {
	status, err := s.relay.Status(ctx)
	if err != nil {
		return fmt.Errorf("refreshing status: %w", err)
	}
	s.state.Replace(status)
	return nil
}

// StartPolling refreshes the cached state every interval until ctx is done.
func (s *LightService) StartPolling(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					s.logger.Debug("status poll failed", "error", err)
				}
			}
		}
	}()
}

func (s *LightService) notify(ctx context.Context, n domain.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error("notifying", "error", err)
	}
}

func (s *LightService) record(ctx context.Context, text, source string, resp VoiceResponse) {
	entry := domain.HistoryEntry{
		Text:       text,
		Source:     source,
		Language:   resp.Language,
		Translated: resp.Translated,
		Success:    resp.Success,
		Reason:     resp.Reason,
		Message:    resp.Message,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Error("recording history", "error", err)
	}
}
