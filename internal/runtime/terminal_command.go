package runtime

import (
	"context"
)

// ResultType determines how a result is rendered and which host side effect
// it triggers.
type ResultType string

const (
	TypeInfo     ResultType = "info"
	TypeSuccess  ResultType = "success"
	TypeError    ResultType = "error"
	TypeClear    ResultType = "clear"
	TypeExit     ResultType = "exit"
	TypeNavigate ResultType = "navigate"
)

// Valid reports whether t is one of the known result types.
func (t ResultType) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeError, TypeClear, TypeExit, TypeNavigate:
		return true
	}
	return false
}

// Sentinel outputs carried by clear and exit results.
const (
	ClearSentinel = "__CLEAR__"
	ExitSentinel  = "__EXIT__"
)

// CommandResult defines what the terminal should display after execution.
// Route is set only when Type is TypeNavigate.
type CommandResult struct {
	Output string     `json:"output"`
	Type   ResultType `json:"type"`
	Route  string     `json:"route,omitempty"`

	// Kind classifies error results for metrics. Empty for non-errors.
	Kind ErrorKind `json:"kind,omitempty"`
}

// Info is shorthand for an info result.
func Info(output string) CommandResult { return CommandResult{Output: output, Type: TypeInfo} }

// Success is shorthand for a success result.
func Success(output string) CommandResult { return CommandResult{Output: output, Type: TypeSuccess} }

// Failure builds an error result of the given kind.
func Failure(kind ErrorKind, output string) CommandResult {
	return CommandResult{Output: output, Type: TypeError, Kind: kind}
}

// Navigate builds a navigation result.
func Navigate(route, output string) CommandResult {
	return CommandResult{Output: output, Type: TypeNavigate, Route: route}
}

// Category groups commands in the help listing.
type Category string

const (
	CategoryInfo       Category = "info"
	CategoryNavigation Category = "navigation"
	CategoryFun        Category = "fun"
)

// ExecuteFunc runs a command. args is the trimmed remainder of the input line
// after the command token; history is a read-only snapshot.
type ExecuteFunc func(ctx context.Context, args string, history []string) (CommandResult, error)

// CommandSpec describes one registered command.
type CommandSpec struct {
	// Name is the unique lowercase lookup token.
	Name string
	// Usage is shown in help in place of Name when set, e.g. "cat [file]".
	Usage       string
	Description string
	Category    Category
	Execute     ExecuteFunc
}

// Label returns the text help shows in the name column.
func (c CommandSpec) Label() string {
	if c.Usage != "" {
		return c.Usage
	}
	return c.Name
}
