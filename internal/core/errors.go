package core

// Error codes for domain errors.
const (
	ErrCodeUserNotFound      = "user_not_found"
	ErrCodeRoomNotFound      = "room_not_found"
	ErrCodeRoomFull          = "room_full"
	ErrCodeNotInRoom         = "not_in_room"
	ErrCodeBadRequest        = "bad_request"
	ErrCodeProtocolViolation = "protocol_violation"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
