package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/xid"

	"github.com/automatelab/relay/pkg/relay"
)

// LambdaHandler serves the relay behind an API Gateway proxy integration.
type LambdaHandler struct {
	dispatcher *relay.Dispatcher
}

// NewLambdaHandler creates the Lambda transport.
func NewLambdaHandler(dispatcher *relay.Dispatcher) *LambdaHandler {
	return &LambdaHandler{dispatcher: dispatcher}
}

// Handle relays one API Gateway event. Relay failures are expressed in the
// response; the returned error is reserved for encoding failures.
func (h *LambdaHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := event.RequestContext.RequestID
	if id == "" {
		id = xid.New().String()
	}
	ctx = relay.WithRequestID(ctx, id)

	req := relay.Request{Method: event.HTTPMethod}
	if event.IsBase64Encoded {
		req.Body = base64.NewDecoder(base64.StdEncoding, strings.NewReader(event.Body))
	} else {
		req.Body = strings.NewReader(event.Body)
	}

	env := h.dispatcher.Handle(ctx, req)
	body, err := env.Bytes()
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: env.StatusCode,
		Headers: map[string]string{
			"Content-Type":  env.ContentType(),
			RequestIDHeader: id,
		},
		Body: string(body),
	}, nil
}
