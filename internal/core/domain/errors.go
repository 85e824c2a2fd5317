package domain

import "go.trai.ch/zerr"

var (
	// ErrEvaluationFailed is returned when a script evaluation ends in the Failed state.
	ErrEvaluationFailed = zerr.New("evaluation failed")

	// ErrSessionBusy is returned when an evaluation is requested while another one is running.
	ErrSessionBusy = zerr.New("an evaluation is already running")

	// ErrNoShapes is reported when the scene accumulator holds nothing to accumulate.
	ErrNoShapes = zerr.New("no shapes to accumulate")

	// ErrMalformedShape is reported when a scene entry is null, invalid, or not a topological object.
	ErrMalformedShape = zerr.New("malformed shape")

	// ErrUnknownHandle is returned by a kernel when a handle does not refer to a live object.
	ErrUnknownHandle = zerr.New("unknown kernel handle")

	// ErrInvalidGeometry is returned by a kernel when an operation's input cannot be built.
	ErrInvalidGeometry = zerr.New("invalid geometry")

	// ErrUnsupportedOperation is returned by a kernel for an operation configuration it does not know.
	ErrUnsupportedOperation = zerr.New("unsupported operation")

	// ErrKernelPanic is returned when a kernel call panics during an evaluation.
	ErrKernelPanic = zerr.New("kernel panicked")

	// ErrCanonicalizeFailed is returned when operation arguments cannot be serialized for hashing.
	ErrCanonicalizeFailed = zerr.New("failed to canonicalize operation arguments")

	// ErrScriptSyntax is returned when user code cannot be parsed.
	ErrScriptSyntax = zerr.New("syntax error")

	// ErrUndefinedName is returned when user code references an unknown variable or function.
	ErrUndefinedName = zerr.New("undefined name")

	// ErrInvalidArgument is returned when a modeling call receives arguments of the wrong shape or type.
	ErrInvalidArgument = zerr.New("invalid argument")

	// ErrNothingToRender is returned when a render is requested before any successful evaluation.
	ErrNothingToRender = zerr.New("nothing to render")

	// ErrWorkerNotReady is returned when the host gives up waiting for the startup notification.
	ErrWorkerNotReady = zerr.New("worker did not become ready")

	// ErrConnectionClosed is returned when a protocol connection is used after it was closed.
	ErrConnectionClosed = zerr.New("connection closed")

	// ErrPayloadEncodeFailed is returned when a message payload cannot be turned into plain data.
	ErrPayloadEncodeFailed = zerr.New("failed to encode message payload")

	// ErrPayloadDecodeFailed is returned when a message payload cannot be decoded into its typed form.
	ErrPayloadDecodeFailed = zerr.New("failed to decode message payload")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the config file holds values outside their allowed range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrScriptReadFailed is returned when the user script cannot be read.
	ErrScriptReadFailed = zerr.New("failed to read script")

	// ErrUnknownExportFormat is returned when an export format cannot be determined.
	ErrUnknownExportFormat = zerr.New("unknown export format, expected 'stl', 'obj' or 'json'")

	// ErrExportFailed is returned when a mesh cannot be written.
	ErrExportFailed = zerr.New("failed to export mesh")

	// ErrInvalidOverride is returned for a --set value that is not of the form name=value.
	ErrInvalidOverride = zerr.New("invalid GUI override, expected name=value")

	// ErrUnknownLogFormat is returned for a --log-format value other than 'pretty' or 'json'.
	ErrUnknownLogFormat = zerr.New("unknown log format, expected 'pretty' or 'json'")

	// ErrUnknownOutputMode is returned for an --output-mode value that names no renderer.
	ErrUnknownOutputMode = zerr.New("unknown output mode, expected 'auto', 'tui', 'linear' or 'ci'")

	// ErrDaemonSpawnFailed is returned when the worker daemon process cannot be started.
	ErrDaemonSpawnFailed = zerr.New("failed to spawn worker daemon")

	// ErrDaemonUnavailable is returned when the worker daemon does not answer.
	ErrDaemonUnavailable = zerr.New("worker daemon is not running")
)
