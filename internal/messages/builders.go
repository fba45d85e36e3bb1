package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

// =============================================================================
// CONSTRUCTORS - Easy message creation
// =============================================================================

// NewTerminalCommandMessage creates a terminal command message with a fresh
// correlation id
func NewTerminalCommandMessage(sessionID, cmd string) *TerminalCommandMessage {
	return &TerminalCommandMessage{
		SessionID:     sessionID,
		Cmd:           cmd,
		CorrelationID: xid.New().String(),
		SubmittedAt:   time.Now(),
	}
}

// WithCorrelation overrides the correlation id
func (c *TerminalCommandMessage) WithCorrelation(id string) *TerminalCommandMessage {
	c.CorrelationID = id
	return c
}

// NewTerminalRecallCommand creates a history recall command
func NewTerminalRecallCommand(sessionID, direction string) *TerminalRecallCommand {
	return &TerminalRecallCommand{
		SessionID:     sessionID,
		Direction:     direction,
		CorrelationID: xid.New().String(),
	}
}

// NewTerminalResetCommand creates a session reset command
func NewTerminalResetCommand(sessionID string) *TerminalResetCommand {
	return &TerminalResetCommand{SessionID: sessionID, CorrelationID: xid.New().String()}
}

// NewTerminalResultEvent creates a result event
func NewTerminalResultEvent(sessionID, cmd, output, resultType string) *TerminalResultEvent {
	return &TerminalResultEvent{
		SessionID: sessionID,
		Cmd:       cmd,
		Output:    output,
		Type:      resultType,
		EmittedAt: time.Now(),
	}
}

// WithRoute sets the navigation target
func (e *TerminalResultEvent) WithRoute(route string) *TerminalResultEvent {
	e.Route = route
	return e
}

// WithEffect records the host side effect
func (e *TerminalResultEvent) WithEffect(effect string) *TerminalResultEvent {
	e.Effect = effect
	return e
}

// WithSeq stamps the session sequence the event was produced at
func (e *TerminalResultEvent) WithSeq(seq uint64) *TerminalResultEvent {
	e.Seq = seq
	return e
}

// WithCorrelation propagates the originating command's id
func (e *TerminalResultEvent) WithCorrelation(id string) *TerminalResultEvent {
	e.CorrelationID = id
	return e
}

// NewTerminalRecallEvent creates a recall event
func NewTerminalRecallEvent(sessionID, value string, seq uint64) *TerminalRecallEvent {
	return &TerminalRecallEvent{SessionID: sessionID, Value: value, Seq: seq, EmittedAt: time.Now()}
}

// NewTerminalResetEvent creates a reset event
func NewTerminalResetEvent(sessionID string, seq uint64) *TerminalResetEvent {
	return &TerminalResetEvent{SessionID: sessionID, Seq: seq, EmittedAt: time.Now()}
}

// =============================================================================
// VALIDATION
// =============================================================================

var sessionIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session_id is required")
	}
	if !sessionIDRegex.MatchString(id) {
		return fmt.Errorf("session_id must contain only alphanumeric characters, hyphens, and underscores")
	}
	return nil
}

// =============================================================================
// PUBLISHER - Type-safe message publishing
// =============================================================================

// Publisher provides type-safe message publishing
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new type-safe publisher
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishCommand publishes a command with validation
func (p *Publisher) PublishCommand(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	_, err = p.js.Publish(ctx, cmd.Subject(), data)
	if err != nil {
		return fmt.Errorf("publish command: %w", err)
	}

	return nil
}

// PublishEvent publishes an event with validation
func (p *Publisher) PublishEvent(ctx context.Context, evt Event) error {
	if err := evt.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = p.js.Publish(ctx, evt.Subject(), data)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// SubjectPatterns returns all known subject patterns for renderer registration
func SubjectPatterns() map[string]string {
	return map[string]string{
		"terminal.command":      TerminalCommandSubjectPattern,
		"terminal.recall":       TerminalRecallSubjectPattern,
		"terminal.reset":        TerminalResetSubjectPattern,
		"terminal.result":       TerminalResultSubjectPattern,
		"terminal.recall.value": TerminalRecalledSubjectPattern,
		"terminal.reset.done":   TerminalResetDoneSubjectPattern,
	}
}

// BuildCommand creates a typed command from request data
func BuildCommand(action, sessionID string, data map[string]any) (Command, error) {
	switch strings.ToLower(action) {
	case "command":
		cmdText, _ := data["cmd"].(string)
		return NewTerminalCommandMessage(sessionID, cmdText), nil
	case "recall":
		dir, _ := data["direction"].(string)
		return NewTerminalRecallCommand(sessionID, dir), nil
	case "reset":
		return NewTerminalResetCommand(sessionID), nil
	default:
		return nil, fmt.Errorf("unknown command type: %s", action)
	}
}

// DecodeCommand parses a command payload according to its subject.
func DecodeCommand(subject string, data []byte) (Command, error) {
	_, action, ok := ParseTerminalSubject(subject)
	if !ok {
		return nil, fmt.Errorf("not a terminal subject: %s", subject)
	}
	var cmd Command
	switch action {
	case "command":
		cmd = &TerminalCommandMessage{}
	case "recall":
		cmd = &TerminalRecallCommand{}
	case "reset":
		cmd = &TerminalResetCommand{}
	default:
		return nil, fmt.Errorf("unknown terminal action: %s", action)
	}
	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, fmt.Errorf("decode %s: %w", action, err)
	}
	return cmd, cmd.Validate()
}
