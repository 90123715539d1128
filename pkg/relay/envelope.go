package relay

import (
	"encoding/json"
	"fmt"
)

// Content types written for envelope bodies.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// TextBody is the success body of the generative actions.
type TextBody struct {
	Text string `json:"text"`
}

// MessageBody is the success body of the webhook actions.
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorBody is the failure body for every JSON error.
type ErrorBody struct {
	Error string `json:"error"`
}

// Envelope is the normalized response returned to the caller regardless
// of which path produced it. A string Body is sent as plain text, anything
// else as JSON.
type Envelope struct {
	StatusCode int
	Body       any
}

// ContentType returns the media type matching Body.
func (e Envelope) ContentType() string {
	if _, ok := e.Body.(string); ok {
		return ContentTypeText
	}
	return ContentTypeJSON
}

// Bytes encodes Body for the wire.
func (e Envelope) Bytes() ([]byte, error) {
	if s, ok := e.Body.(string); ok {
		return []byte(s), nil
	}
	b, err := json.Marshal(e.Body)
	if err != nil {
		return nil, fmt.Errorf("encode envelope body: %w", err)
	}
	return b, nil
}

func textEnvelope(status int, text string) Envelope {
	return Envelope{StatusCode: status, Body: text}
}

func errorEnvelope(status int, msg string) Envelope {
	return Envelope{StatusCode: status, Body: ErrorBody{Error: msg}}
}

func internalEnvelope() Envelope {
	return errorEnvelope(500, MsgInternal)
}
