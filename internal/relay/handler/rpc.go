package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/automatelab/relay/pkg/relay"
)

const (
	// RelayServiceName is the fully-qualified name of the relay service.
	RelayServiceName = "relay.v1.RelayService"

	// RelayProcedure is the full path of the Relay RPC.
	RelayProcedure = "/" + RelayServiceName + "/Relay"
)

// RelayResponse carries a relay envelope over Connect. Body is always valid
// JSON; plain-text bodies are encoded as a JSON string.
type RelayResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// RPCHandler implements the Relay RPC. Every relay outcome, including
// rejections, is a successful RPC; Connect errors are left to codec and
// transport failures.
type RPCHandler struct {
	dispatcher *relay.Dispatcher
}

// NewRPCHandler creates the Connect transport.
func NewRPCHandler(dispatcher *relay.Dispatcher) *RPCHandler {
	return &RPCHandler{dispatcher: dispatcher}
}

// Relay dispatches the request message as if it were a POST body.
func (h *RPCHandler) Relay(ctx context.Context, req *connect.Request[json.RawMessage]) (*connect.Response[RelayResponse], error) {
	var body []byte
	if req.Msg != nil {
		body = *req.Msg
	}

	env := h.dispatcher.Handle(ctx, relay.Request{
		Method: http.MethodPost,
		Body:   bytes.NewReader(body),
	})

	out, err := toRelayResponse(env)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func toRelayResponse(env relay.Envelope) (*RelayResponse, error) {
	body, err := env.Bytes()
	if err != nil {
		return nil, err
	}
	if env.ContentType() == relay.ContentTypeText {
		body, err = json.Marshal(string(body))
		if err != nil {
			return nil, fmt.Errorf("encode text body: %w", err)
		}
	}
	return &RelayResponse{
		StatusCode:  env.StatusCode,
		ContentType: env.ContentType(),
		Body:        body,
	}, nil
}

// NewRelayServiceHandler returns the mount path and handler for the relay
// service.
func NewRelayServiceHandler(h *RPCHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	relayHandler := connect.NewUnaryHandler(RelayProcedure, h.Relay, opts...)
	mux := http.NewServeMux()
	mux.Handle(RelayProcedure, relayHandler)
	return "/" + RelayServiceName + "/", mux
}

// NewRelayServiceClient creates a client for the Relay RPC.
func NewRelayServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[json.RawMessage, RelayResponse] {
	return connect.NewClient[json.RawMessage, RelayResponse](httpClient, baseURL+RelayProcedure, opts...)
}
