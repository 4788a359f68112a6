package rsacore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter indicates a malformed size, exponent or key input.
	ErrInvalidParameter = errors.New("rsa: invalid parameter")

	// ErrKeyGeneration indicates a retry cap was exhausted while searching
	// for a constraint-satisfying prime pair.
	ErrKeyGeneration = errors.New("rsa: key generation failed")

	// ErrExponentNotCoprime indicates a caller-supplied public exponent was
	// rejected for the generated modulus.
	ErrExponentNotCoprime = errors.New("rsa: public exponent not coprime with totient")

	// ErrNoInverseExists indicates gcd(e, t) != 1 in a modular inversion.
	ErrNoInverseExists = errors.New("rsa: modular inverse does not exist")

	// ErrMessageTooLarge indicates a message or ciphertext outside [0, n).
	ErrMessageTooLarge = errors.New("rsa: message out of range")
)

// Error wraps an error kind with the failing operation.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error, wraps one of the Err* kinds
}

func (e *Error) Error() string {
	return fmt.Sprintf("rsa.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind. errors.Is(err, kind) holds for
// the result.
func NewError(op string, kind error, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}

// WrapError attaches op and kind to a lower-level cause.
func WrapError(op string, kind, cause error) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: %w", kind, cause),
	}
}
