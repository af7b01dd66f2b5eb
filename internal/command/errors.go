package command

import (
	"errors"
	"fmt"
)

// Typed refusal reasons. The dispatcher maps each to its own user-facing
// reply; handlers and guards must return these rather than free-form text.
var (
	ErrNotRegistered     = errors.New("sender has no wallet account")
	ErrWrongChannel      = errors.New("command not allowed in this channel")
	ErrNotAuthorized     = errors.New("sender is not the bot owner")
	ErrPrivateNotAllowed = errors.New("command not allowed in private messages")
)

// MissingArgumentError reports a required positional argument that is absent
// or could not be parsed. It fires before any guard runs.
type MissingArgumentError struct {
	Command string
	Arg     string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("command %q: missing or invalid argument %q", e.Command, e.Arg)
}
