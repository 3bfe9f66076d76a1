package storage

// Unavailable wraps a backend/transport failure so that callers can match it
// with errors.Is(err, ErrUnavailable) while the driver error stays reachable
// through errors.As.
func Unavailable(op string, err error) error {
	return &unavailableError{op: op, err: err}
}

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}
