package history

import "errors"

// ErrInvalidRole is returned when a turn carries a role other than
// "user" or "assistant".
var ErrInvalidRole = errors.New("history: invalid role")
