// Package interpreter turns free-text light commands in any supported
// language into on/off actions for the addressable lights.
//
// Matching is plain substring search against per-language lexicons. When the
// local lexicons cannot decide, the text is machine-translated to English and
// matched again.
package interpreter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"voice-lights/internal/domain"
)

const DefaultTranslateTimeout = 10 * time.Second

const (
	msgEmptyCommand = "No command received"
	msgNoLights     = `No specific lights mentioned. Try: "light 1 on" or "all lights off"`
	msgNoAction     = `No action specified. Say "on" or "off"`
)

// Interpreter is safe for concurrent use; it holds no per-call state.
type Interpreter struct {
	translator Translator
	timeout    time.Duration
	logger     *slog.Logger
}

func New(translator Translator, timeout time.Duration, logger *slog.Logger) *Interpreter {
	if translator == nil {
		translator = NoopTranslator{}
	}
	if timeout <= 0 {
		timeout = DefaultTranslateTimeout
	}
	return &Interpreter{
		translator: translator,
		timeout:    timeout,
		logger:     logger,
	}
}

// Translate returns text rendered in target, lowercased. On any failure the
// lowercased original is returned instead.
func (i *Interpreter) Translate(ctx context.Context, text, target string) string {
	return i.translate(ctx, i.translator, text, target)
}

func (i *Interpreter) translate(ctx context.Context, tr Translator, text, target string) string {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	out, err := tr.Translate(ctx, text, target)
	if err != nil {
		i.logger.Warn("translation failed, using original text", "error", err, "target", target)
		return strings.ToLower(text)
	}
	return strings.ToLower(out)
}

// DetermineAction decides between on and off from the keyword counts of lang.
// A tie, including no keywords at all, is settled by matching the English
// translation; ActionNone is returned when that is undecided too.
func (i *Interpreter) DetermineAction(ctx context.Context, text, lang string) domain.Action {
	return i.determineAction(ctx, i.translator, text, lang)
}

func (i *Interpreter) determineAction(ctx context.Context, tr Translator, text, lang string) domain.Action {
	if action := compareActions(text, lang); action != domain.ActionNone {
		return action
	}
	translated := i.translate(ctx, tr, text, BaseLanguage)
	return compareActions(translated, BaseLanguage)
}

// stage is one attempt of the two-stage pipeline: the original text under the
// detected language, then the English translation under BaseLanguage.
type stage struct {
	name string
	text string
	lang string
}

// Interpret runs the full pipeline for one command. It never panics; any
// unexpected failure becomes a ReasonInternalError result.
func (i *Interpreter) Interpret(ctx context.Context, text string) (result domain.Interpretation) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("interpreting command", "panic", r, "text", text)
			result = failure(domain.ReasonInternalError, fmt.Sprintf("Error processing command: %v", r))
		}
	}()

	if strings.TrimSpace(text) == "" {
		return failure(domain.ReasonEmptyCommand, msgEmptyCommand)
	}

	tr := newMemoTranslator(i.translator)

	lang := DetectLanguage(text)
	translated := i.translate(ctx, tr, text, BaseLanguage)

	i.logger.Debug("interpreting command", "text", text, "language", lang, "translated", translated)

	stages := []stage{
		{name: "original", text: text, lang: lang},
		{name: "translated", text: translated, lang: BaseLanguage},
	}

	lights := resolveLights(stages)
	if len(lights) == 0 {
		return failure(domain.ReasonNoLightsSpecified, msgNoLights)
	}

	action := i.resolveAction(ctx, tr, stages)
	if action == domain.ActionNone {
		return failure(domain.ReasonNoActionSpecified, msgNoAction)
	}

	commands := make([]domain.LightCommand, 0, len(lights))
	for _, id := range lights {
		commands = append(commands, domain.LightCommand{Light: id, State: action.State()})
	}

	return domain.Interpretation{
		Success:    true,
		Message:    Summary(action, lights),
		Commands:   commands,
		Action:     action,
		Language:   lang,
		Translated: translated,
	}
}

func resolveLights(stages []stage) []int {
	for _, s := range stages {
		if ids := ExtractLights(s.text, s.lang); len(ids) > 0 {
			return ids
		}
	}
	return nil
}

func (i *Interpreter) resolveAction(ctx context.Context, tr Translator, stages []stage) domain.Action {
	for _, s := range stages {
		if action := i.determineAction(ctx, tr, s.text, s.lang); action != domain.ActionNone {
			i.logger.Debug("action resolved", "stage", s.name, "action", action)
			return action
		}
	}
	return domain.ActionNone
}

// Summary describes a command for the user, e.g. "Turning off lights 2, 3".
// lights must be ascending.
func Summary(action domain.Action, lights []int) string {
	if len(lights) == domain.MaxLight-domain.MinLight+1 {
		return fmt.Sprintf("Turning %s all lights", action)
	}

	ids := make([]string, 0, len(lights))
	for _, id := range lights {
		ids = append(ids, strconv.Itoa(id))
	}

	noun := "light"
	if len(lights) > 1 {
		noun = "lights"
	}
	return fmt.Sprintf("Turning %s %s %s", action, noun, strings.Join(ids, ", "))
}

func failure(reason domain.FailureReason, message string) domain.Interpretation {
	return domain.Interpretation{Reason: reason, Message: message}
}
