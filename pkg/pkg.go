// Package pkg contains standalone utility functions that do not depend on
// anything except themselves.
package pkg

// PanicIf panics with err if it is non-nil. The error itself is the panic
// value, so callers that recover can match it with errors.Is and errors.As.
func PanicIf(err error) {
	if err != nil {
		panic(err)
	}
}
