// Package messages provides a centralized schema for all NATS messaging contracts.
//
// This package consolidates the terminal message types, subject patterns and
// validation logic into a single source of truth, providing:
//
//   - Type-safe message construction with validation before publish
//   - Fluent builders for events
//   - Centralized subject constants to eliminate hardcoded strings
//   - A publisher for commands and events
//
// # Message Types
//
// Commands are published by the HTTP layer on the TERMINAL stream:
//
//   - TerminalCommandMessage: one submitted line (terminal.session.<sid>.command)
//   - TerminalRecallCommand: history navigation (terminal.session.<sid>.recall)
//   - TerminalResetCommand: close-and-clear (terminal.session.<sid>.reset)
//
// Events are published by the terminal engine on the EVENT stream:
//
//   - TerminalResultEvent: a dispatched result (event.terminal.session.<sid>.result)
//   - TerminalRecallEvent: the recalled input value (event.terminal.session.<sid>.recall)
//   - TerminalResetEvent: a session was reset (event.terminal.session.<sid>.reset)
//
// Every event carries the session sequence number it was produced at, so a
// stream that has already rendered a newer snapshot can skip it.
//
// # Usage Example
//
//	cmd := messages.NewTerminalCommandMessage(sid, "help")
//
//	publisher := messages.NewPublisher(js)
//	if err := publisher.PublishCommand(ctx, cmd); err != nil {
//	    return err
//	}
package messages
