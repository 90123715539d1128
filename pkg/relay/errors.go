package relay

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed relay request.
type ErrorKind int

const (
	InternalError ErrorKind = iota
	MethodNotAllowed
	MalformedRequest
	UnknownAction
	MissingCredential
	MissingConfiguration
	UpstreamError
)

func (k ErrorKind) String() string {
	switch k {
	case MethodNotAllowed:
		return "method_not_allowed"
	case MalformedRequest:
		return "malformed_request"
	case UnknownAction:
		return "unknown_action"
	case MissingCredential:
		return "missing_credential"
	case MissingConfiguration:
		return "missing_configuration"
	case UpstreamError:
		return "upstream_error"
	default:
		return "internal_error"
	}
}

// Caller-facing messages.
const (
	MsgInternal              = "An internal error occurred."
	MsgInvalidRequestBody    = "Invalid request body."
	MsgMethodNotAllowed      = "Method Not Allowed"
	MsgInvalidAction         = "Invalid action"
	MsgGeminiKeyMissing      = "Gemini API key is not configured."
	MsgGeminiEndpointMissing = "Gemini API endpoint is not configured."
	MsgWebhookURLMissing     = "Webhook URL is not configured."
	MsgGeminiFailed          = "Failed to call Gemini API."
	MsgWebhookFailed         = "Failed to call n8n webhook."
)

// Error is the typed failure returned by Dispatch. Message is what the
// caller may see; Err is the cause and stays server-side.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or
// InternalError when there is none.
func KindOf(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return InternalError
}
