package runtime

import "errors"

// ErrorKind classifies faults that end a dispatch as an error result.
type ErrorKind string

const (
	KindUnknownCommand   ErrorKind = "unknown_command"
	KindBadUsage         ErrorKind = "bad_usage"
	KindRemoteFetch      ErrorKind = "remote_fetch"
	KindPrivilegeDenied  ErrorKind = "privilege_denied"
	KindExecutionFault   ErrorKind = "execution_fault"
	KindNoSuchDirectory  ErrorKind = "no_such_directory"
	KindDispatchTimedOut ErrorKind = "timeout"
)

var (
	// ErrDuplicateCommand is returned by NewRegistry when two specs share a name.
	ErrDuplicateCommand = errors.New("duplicate command")
	// ErrInvalidCommand is returned by NewRegistry for unusable specs.
	ErrInvalidCommand = errors.New("invalid command spec")
)
