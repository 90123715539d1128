package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pitabwire/frame/config"

	relayconfig "github.com/automatelab/relay/config"
	"github.com/automatelab/relay/internal/relay/handler"
	"github.com/automatelab/relay/pkg/gemini"
	"github.com/automatelab/relay/pkg/relay"
	"github.com/automatelab/relay/pkg/webhook"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithOIDC[relayconfig.RelayConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	targets, err := cfg.ResolveTargets(ctx)
	if err != nil {
		log.Fatalf("resolving targets: %v", err)
	}

	var dispatchOpts []relay.Option
	if cfg.StrictRequestErrors {
		dispatchOpts = append(dispatchOpts, relay.WithStrictRequestErrors())
	}
	dispatcher := relay.NewDispatcher(targets,
		gemini.NewClient(gemini.WithTimeout(cfg.UpstreamTimeout())),
		webhook.NewClient(
			webhook.WithTimeout(cfg.UpstreamTimeout()),
			webhook.WithSigningSecret(cfg.WebhookSigningSecret),
		),
		dispatchOpts...,
	)

	lambda.Start(handler.NewLambdaHandler(dispatcher).Handle)
}
