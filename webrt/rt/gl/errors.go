package gl

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for argument-shape violations. No command
	// is sent and the last-error slot holds INVALID_VALUE.
	ErrInvalidArgument = errors.New("gl: invalid argument")
	ErrContextLost     = errors.New("gl: context lost")
)

// invalid records INVALID_VALUE and returns a wrapped ErrInvalidArgument.
func (c *Context) invalid(op, format string, args ...any) error {
	c.lastError = InvalidValue
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, op, fmt.Sprintf(format, args...))
}

// SetError stores code in the last-error slot, replacing whatever was there.
func (c *Context) SetError(code uint32) {
	c.lastError = code
}
