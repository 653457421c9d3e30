package sheets

import "fmt"

// ErrorKind is the closed taxonomy of fetch failures.
type ErrorKind int

const (
	// KindArgument: neither a worksheet name nor a gid was supplied.
	KindArgument ErrorKind = iota
	// KindTransport: the sheet endpoint answered but the response was
	// unusable, either a non-2xx status or a malformed payload.
	KindTransport
	// KindNetwork: the connection itself failed (DNS, refused, timeout).
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindArgument:
		return "argument"
	case KindTransport:
		return "transport"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// FetchError is the single error type surfaced by sheet retrieval.
// StatusCode and Reason are set for transport errors; Err carries the
// underlying cause for network errors.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindArgument:
		return fmt.Sprintf("invalid arguments: %s", e.Reason)
	case KindTransport:
		if e.Err != nil {
			return fmt.Sprintf("unusable response fetching sheet: %d %s: %v", e.StatusCode, e.Reason, e.Err)
		}
		return fmt.Sprintf("HTTP error fetching sheet: %d %s", e.StatusCode, e.Reason)
	case KindNetwork:
		return fmt.Sprintf("network error fetching sheet: %v", e.Err)
	default:
		return e.Reason
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	fe, ok := err.(*FetchError)
	return ok && fe.Kind == kind
}

func argumentError(reason string) *FetchError {
	return &FetchError{Kind: KindArgument, Reason: reason}
}

func transportError(status int, reason string) *FetchError {
	return &FetchError{Kind: KindTransport, StatusCode: status, Reason: reason}
}

func networkError(err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Err: err}
}

// payloadError marks a response that arrived intact but could not be parsed
// as CSV. The connection worked, so it is a transport failure, not a network
// one; the reason string keeps it distinguishable from a bad status.
func payloadError(status int, err error) *FetchError {
	return &FetchError{Kind: KindTransport, StatusCode: status, Reason: "malformed CSV payload", Err: err}
}
