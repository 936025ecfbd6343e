package core

// Error codes surfaced over the wire protocol. Domain-level misses (unknown
// message id, commands from a never-joined connection) are deliberately
// silent no-ops and have no code here.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)

// RelayError wraps a code and human-readable message.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}
