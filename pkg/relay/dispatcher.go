package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pitabwire/util"
)

// GenerativeCaller performs one generative-text call.
type GenerativeCaller interface {
	Generate(ctx context.Context, endpoint, apiKey, prompt string) (string, error)
}

// WebhookCaller performs one webhook POST. A nil data sends no body.
type WebhookCaller interface {
	Post(ctx context.Context, url string, data json.RawMessage) error
}

// Request is a transport-neutral inbound request.
type Request struct {
	Method string
	Body   io.Reader
}

// object holds the members of a decoded JSON object. Lookups are by exact
// key; encoding/json struct decoding would also accept "ACTION" or "Payload".
type object map[string]json.RawMessage

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStrictRequestErrors reports unparseable request bodies as 400
// instead of the generic 500.
func WithStrictRequestErrors() Option {
	return func(d *Dispatcher) {
		d.strictRequestErrors = true
	}
}

// Dispatcher routes validated requests to one outbound call.
type Dispatcher struct {
	targets    *Targets
	generative GenerativeCaller
	webhook    WebhookCaller

	strictRequestErrors bool
}

// NewDispatcher creates a dispatcher over read-only targets.
func NewDispatcher(targets *Targets, generative GenerativeCaller, webhook WebhookCaller, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		targets:    targets,
		generative: generative,
		webhook:    webhook,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle runs one request and always produces an envelope. Every failure
// goes through envelopeFor; panics become InternalError.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			util.Log(ctx).WithError(fmt.Errorf("request %s: panic: %v", RequestID(ctx), r)).Error("relay panic")
			env = internalEnvelope()
		}
	}()

	out, err := d.Dispatch(ctx, req)
	if err != nil {
		return d.envelopeFor(ctx, err)
	}
	return out
}

// Dispatch validates req, performs the outbound call and returns the
// success envelope, or a *Error describing the failure.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Envelope, error) {
	if req.Method != http.MethodPost {
		return Envelope{}, newError(MethodNotAllowed, MsgMethodNotAllowed, nil)
	}

	in, err := decodeInbound(req.Body)
	if err != nil {
		return Envelope{}, err
	}

	action, err := actionFromJSON(in["action"])
	if err != nil {
		return Envelope{}, newError(UnknownAction, MsgInvalidAction, err)
	}

	payload, ok := decodeObject(in["payload"])
	if !ok {
		return Envelope{}, newError(MalformedRequest, MsgInternal, fmt.Errorf("payload for %s is not an object", action))
	}

	switch action.Family() {
	case FamilyGenerative:
		// Non-string prompts are rejected here instead of being forwarded to
		// Gemini as a non-text part.
		prompt, err := optionalString(payload["prompt"])
		if err != nil {
			return Envelope{}, newError(MalformedRequest, MsgInternal, fmt.Errorf("prompt: %w", err))
		}
		return d.callGenerative(ctx, action, prompt)
	case FamilyWebhook:
		return d.callWebhook(ctx, action, payload["data"])
	default:
		return Envelope{}, newError(UnknownAction, MsgInvalidAction, nil)
	}
}

func (d *Dispatcher) callGenerative(ctx context.Context, action Action, prompt string) (Envelope, error) {
	target, err := d.targets.Route(action)
	if err != nil {
		return Envelope{}, err
	}

	text, err := d.generative.Generate(ctx, target.URL, target.Secret, prompt)
	if err != nil {
		return Envelope{}, newError(UpstreamError, MsgGeminiFailed, err)
	}
	return Envelope{StatusCode: http.StatusOK, Body: TextBody{Text: text}}, nil
}

func (d *Dispatcher) callWebhook(ctx context.Context, action Action, data json.RawMessage) (Envelope, error) {
	target, err := d.targets.Route(action)
	if err != nil {
		return Envelope{}, err
	}

	if err := d.webhook.Post(ctx, target.URL, data); err != nil {
		return Envelope{}, newError(UpstreamError, MsgWebhookFailed, err)
	}
	return Envelope{StatusCode: http.StatusOK, Body: MessageBody{Message: "Success"}}, nil
}

// envelopeFor is the single mapping from failures to the wire contract.
func (d *Dispatcher) envelopeFor(ctx context.Context, err error) Envelope {
	kind := KindOf(err)
	attrs := []any{
		slog.String("request_id", RequestID(ctx)),
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
	}

	switch kind {
	case MethodNotAllowed:
		return textEnvelope(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	case UnknownAction:
		slog.DebugContext(ctx, "relay rejected action", attrs...)
		return textEnvelope(http.StatusBadRequest, MsgInvalidAction)
	case MalformedRequest:
		slog.WarnContext(ctx, "relay malformed request", attrs...)
		if d.strictRequestErrors {
			return errorEnvelope(http.StatusBadRequest, MsgInvalidRequestBody)
		}
		return internalEnvelope()
	case MissingCredential, MissingConfiguration:
		slog.ErrorContext(ctx, "relay target not configured", attrs...)
		return errorEnvelope(http.StatusInternalServerError, publicMessage(err))
	case UpstreamError:
		util.Log(ctx).WithError(fmt.Errorf("request %s: %w", RequestID(ctx), err)).Error("relay upstream call failed")
		return errorEnvelope(http.StatusBadGateway, publicMessage(err))
	default:
		util.Log(ctx).WithError(err).Error("relay internal error")
		return internalEnvelope()
	}
}

func publicMessage(err error) string {
	var re *Error
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return MsgInternal
}

func decodeInbound(body io.Reader) (object, error) {
	var in object
	if body == nil {
		return in, newError(MalformedRequest, MsgInternal, fmt.Errorf("empty body"))
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return in, newError(MalformedRequest, MsgInternal, fmt.Errorf("read body: %w", err))
	}
	if !json.Valid(raw) {
		return in, newError(MalformedRequest, MsgInternal, fmt.Errorf("body is not valid JSON"))
	}

	// Valid JSON that is not an object carries no action.
	in, _ = decodeObject(raw)
	return in, nil
}

// decodeObject reports false for anything but a JSON object, null included.
func decodeObject(raw json.RawMessage) (object, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func optionalString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("not a string: %w", err)
	}
	return s, nil
}
