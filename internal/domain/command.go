package domain

import (
	"errors"
	"time"
)

type Action string

const (
	ActionOn   Action = "on"
	ActionOff  Action = "off"
	ActionNone Action = ""
)

// State reports the boolean relay state an action asks for.
func (a Action) State() bool {
	return a == ActionOn
}

func ActionFromState(on bool) Action {
	if on {
		return ActionOn
	}
	return ActionOff
}

// TextCommandPrefix is the marker used to indicate text commands (vs audio)
const TextCommandPrefix = "__TEXT__:"

// LightCommand is one desired state change for a single relay.
type LightCommand struct {
	Light int  `json:"light"`
	State bool `json:"state"`
}

type FailureReason string

const (
	ReasonEmptyCommand      FailureReason = "empty_command"
	ReasonNoLightsSpecified FailureReason = "no_lights_specified"
	ReasonNoActionSpecified FailureReason = "no_action_specified"
	ReasonInternalError     FailureReason = "internal_error"
)

// Interpretation is the outcome of interpreting one free-text command.
// Reason is empty on success.
type Interpretation struct {
	Success    bool
	Reason     FailureReason
	Message    string
	Commands   []LightCommand
	Action     Action
	Language   string
	Translated string
}

var (
	ErrTranslationUnavailable = errors.New("translation unavailable")
	ErrRelayUnavailable       = errors.New("relay unavailable")
)

// HistoryEntry records one handled voice command.
type HistoryEntry struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Source     string        `json:"source"`
	Language   string        `json:"language,omitempty"`
	Translated string        `json:"translated,omitempty"`
	Success    bool          `json:"success"`
	Reason     FailureReason `json:"reason,omitempty"`
	Message    string        `json:"message"`
	CreatedAt  time.Time     `json:"created_at"`
}

type NotificationKind string

const (
	NotifyCommandExecuted NotificationKind = "command_executed"
	NotifyRelayFailure    NotificationKind = "relay_failure"
)

// Notification reports the outcome of a voice command. Command is the text
// as received.
type Notification struct {
	Kind    NotificationKind
	Message string
	Command string
}
