package cli

import "errors"

var (
	// ErrNoTools is returned when no tools are specified.
	ErrNoTools = errors.New("no tools specified; name tools or use --all")

	// ErrUnknownTool is returned when a tool is not in the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInstallFailed is returned when at least one tool failed to install.
	ErrInstallFailed = errors.New("installation failed")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)
