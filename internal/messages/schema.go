package messages

import (
	"fmt"
	"strings"
	"time"

	"kpterm/util"
)

// =============================================================================
// CORE INTERFACES
// =============================================================================

// Message represents any message in the system
type Message interface {
	Subject() string
	Validate() error
}

// Command represents an input that requests something to happen
type Command interface {
	Message
	IsCommand()
}

// Event represents something that has happened
type Event interface {
	Message
	IsEvent()
	Timestamp() time.Time
}

// =============================================================================
// SUBJECT CONSTANTS - Single source of truth for all subjects
// =============================================================================

const (
	// Streams
	TerminalStream = "TERMINAL"
	EventStream    = "EVENT"

	// Terminal domain - Commands (* = session id)
	TerminalCommandSubjectPattern = "terminal.session.*.command"
	TerminalRecallSubjectPattern  = "terminal.session.*.recall"
	TerminalResetSubjectPattern   = "terminal.session.*.reset"
	TerminalSubjectsAll           = "terminal.session.>"

	// Terminal domain - Events (* = session id)
	TerminalResultSubjectPattern       = "event.terminal.session.*.result"
	TerminalRecalledSubjectPattern     = "event.terminal.session.*.recall"
	TerminalResetDoneSubjectPattern    = "event.terminal.session.*.reset"
	TerminalEventsAll                  = "event.terminal.session.>"
	terminalSessionEventSubjectPattern = "event.terminal.session.%s.>"
)

// Recall directions
const (
	RecallPrevious = "prev"
	RecallNext     = "next"
)

// =============================================================================
// TERMINAL DOMAIN - COMMANDS
// =============================================================================

// TerminalCommandMessage is one line submitted from a terminal
type TerminalCommandMessage struct {
	SessionID     string    `json:"session_id"`
	Cmd           string    `json:"cmd"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

func (c TerminalCommandMessage) Subject() string { return TerminalCommandSubject(c.SessionID) }
func (c TerminalCommandMessage) IsCommand()      {}
func (c TerminalCommandMessage) Validate() error {
	if err := validateSessionID(c.SessionID); err != nil {
		return err
	}
	if strings.TrimSpace(c.Cmd) == "" {
		return fmt.Errorf("cmd is required")
	}
	return nil
}

// TerminalRecallCommand asks for the previous or next history entry
type TerminalRecallCommand struct {
	SessionID     string `json:"session_id"`
	Direction     string `json:"direction"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (c TerminalRecallCommand) Subject() string { return TerminalRecallSubject(c.SessionID) }
func (c TerminalRecallCommand) IsCommand()      {}
func (c TerminalRecallCommand) Validate() error {
	if err := validateSessionID(c.SessionID); err != nil {
		return err
	}
	if c.Direction != RecallPrevious && c.Direction != RecallNext {
		return fmt.Errorf("direction must be %q or %q", RecallPrevious, RecallNext)
	}
	return nil
}

// TerminalResetCommand discards a session's transcript and history
type TerminalResetCommand struct {
	SessionID     string `json:"session_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (c TerminalResetCommand) Subject() string { return TerminalResetSubject(c.SessionID) }
func (c TerminalResetCommand) IsCommand()      {}
func (c TerminalResetCommand) Validate() error { return validateSessionID(c.SessionID) }

// =============================================================================
// TERMINAL DOMAIN - EVENTS
// =============================================================================

// TerminalResultEvent carries the result of one dispatched line
type TerminalResultEvent struct {
	SessionID     string    `json:"session_id"`
	Cmd           string    `json:"cmd"`
	Output        string    `json:"output"`
	Type          string    `json:"type"`
	Route         string    `json:"route,omitempty"`
	Effect        string    `json:"effect,omitempty"`
	Seq           uint64    `json:"seq"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	EmittedAt     time.Time `json:"emitted_at"`
}

func (e TerminalResultEvent) Subject() string      { return TerminalResultSubject(e.SessionID) }
func (e TerminalResultEvent) IsEvent()             {}
func (e TerminalResultEvent) Timestamp() time.Time { return e.EmittedAt }
func (e TerminalResultEvent) Validate() error {
	if err := validateSessionID(e.SessionID); err != nil {
		return err
	}
	if e.Type == "" {
		return fmt.Errorf("type is required")
	}
	if e.Type == "navigate" && e.Route == "" {
		return fmt.Errorf("route is required for navigate results")
	}
	return nil
}

// TerminalRecallEvent carries the recalled input value
type TerminalRecallEvent struct {
	SessionID     string    `json:"session_id"`
	Value         string    `json:"value"`
	Seq           uint64    `json:"seq"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	EmittedAt     time.Time `json:"emitted_at"`
}

func (e TerminalRecallEvent) Subject() string      { return TerminalRecalledSubject(e.SessionID) }
func (e TerminalRecallEvent) IsEvent()             {}
func (e TerminalRecallEvent) Timestamp() time.Time { return e.EmittedAt }
func (e TerminalRecallEvent) Validate() error      { return validateSessionID(e.SessionID) }

// TerminalResetEvent reports a session reset
type TerminalResetEvent struct {
	SessionID     string    `json:"session_id"`
	Seq           uint64    `json:"seq"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	EmittedAt     time.Time `json:"emitted_at"`
}

func (e TerminalResetEvent) Subject() string      { return TerminalResetDoneSubject(e.SessionID) }
func (e TerminalResetEvent) IsEvent()             {}
func (e TerminalResetEvent) Timestamp() time.Time { return e.EmittedAt }
func (e TerminalResetEvent) Validate() error      { return validateSessionID(e.SessionID) }

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func TerminalCommandSubject(sessionID string) string {
	return fmt.Sprintf("terminal.session.%s.command", sessionID)
}

func TerminalRecallSubject(sessionID string) string {
	return fmt.Sprintf("terminal.session.%s.recall", sessionID)
}

func TerminalResetSubject(sessionID string) string {
	return fmt.Sprintf("terminal.session.%s.reset", sessionID)
}

func TerminalResultSubject(sessionID string) string {
	return fmt.Sprintf("event.terminal.session.%s.result", sessionID)
}

func TerminalRecalledSubject(sessionID string) string {
	return fmt.Sprintf("event.terminal.session.%s.recall", sessionID)
}

func TerminalResetDoneSubject(sessionID string) string {
	return fmt.Sprintf("event.terminal.session.%s.reset", sessionID)
}

// TerminalSessionEvents is the filter for every event of one session.
func TerminalSessionEvents(sessionID string) string {
	return fmt.Sprintf(terminalSessionEventSubjectPattern, sessionID)
}

// ParseTerminalSubject splits terminal.session.<sid>.<action> and
// event.terminal.session.<sid>.<action>.
func ParseTerminalSubject(subj string) (sessionID, action string, ok bool) {
	for _, pattern := range []string{"terminal.session.*.*", "event.terminal.session.*.*"} {
		if caps, ok := util.Capture(pattern, subj); ok && len(caps) == 2 {
			return caps[0], caps[1], true
		}
	}
	return "", "", false
}
