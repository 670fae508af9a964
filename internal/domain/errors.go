package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrIntegrity marks a read-back-after-write mismatch: the store accepted
	// a role write but the re-read value differs. Always logged; the operation
	// must not mint a token asserting the unconfirmed value.
	ErrIntegrity = errors.New("integrity violation")

	// ErrDependency marks a failed call to an external collaborator (data
	// store, challenge provider). Detail is logged server-side; callers get a
	// generic message.
	ErrDependency = errors.New("dependency failure")
)

// Error carries a user-facing message together with its sentinel kind. 4xx
// messages are part of the API contract, so Error() returns the message
// verbatim instead of a wrap chain.
type Error struct {
	Msg  string
	Kind error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

// E builds a contract error of the given kind.
func E(kind error, msg string) error { return &Error{Msg: msg, Kind: kind} }

