package catalog

import "errors"

var (
	// ErrDuplicateTool is returned when two definitions share a name.
	ErrDuplicateTool = errors.New("duplicate tool definition")

	// ErrInvalidTool is returned for a definition that cannot be installed or checked.
	ErrInvalidTool = errors.New("invalid tool definition")
)
