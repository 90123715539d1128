package main

import (
	"context"
	"log"
	"net/http"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"

	relayconfig "github.com/automatelab/relay/config"
	"github.com/automatelab/relay/internal/connectutil"
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

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("relay"),
	)
	defer srv.Stop(ctx)

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

	mux := http.NewServeMux()
	handler.NewHTTPHandler(dispatcher, targets, cfg.MaxRequestBytes).RegisterRoutes(mux, cfg.RelayPath)

	rpcOpts, err := connectutil.DefaultOptions()
	if err != nil {
		log.Fatalf("setting up interceptors: %v", err)
	}
	path, rpc := handler.NewRelayServiceHandler(handler.NewRPCHandler(dispatcher), rpcOpts...)
	mux.Handle(path, rpc)

	srv.Init(ctx,
		frame.WithHTTPHandler(connectutil.H2CHandler(handler.WithRequestID(mux))),
	)

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}
