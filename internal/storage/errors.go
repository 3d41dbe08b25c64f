package storage

import "fmt"

// Kind classifies storage failures.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindParse
	KindUnavailable
	KindQuotaExceeded
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse error"
	case KindUnavailable:
		return "storage unavailable"
	case KindQuotaExceeded:
		return "quota exceeded"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Store operation that fails.
type Error struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %s", e.Key, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// works regardless of key.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrParse         = &Error{Kind: KindParse}
	ErrUnavailable   = &Error{Kind: KindUnavailable}
	ErrQuotaExceeded = &Error{Kind: KindQuotaExceeded}
)

func newError(kind Kind, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}
