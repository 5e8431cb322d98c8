package assistant

import "errors"

// Construction errors for required collaborators.
var (
	ErrNilDispatcher = errors.New("assistant: dispatcher is required")
	ErrNilControl    = errors.New("assistant: control plane client is required")
	ErrNilModel      = errors.New("assistant: model connection is required")
	ErrNilPrompts    = errors.New("assistant: prompt store is required")
	ErrNilHistory    = errors.New("assistant: history repository is required")
	ErrNilPrefs      = errors.New("assistant: preference store is required")
)
