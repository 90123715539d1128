package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/automatelab/relay/pkg/gemini"
	"github.com/automatelab/relay/pkg/relay"
	"github.com/automatelab/relay/pkg/urlvalidation"
)

// TargetsFile is the optional YAML description of outbound targets.
// Credentials are only read from the environment.
type TargetsFile struct {
	Gemini struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"gemini"`
	Webhooks struct {
		Contact string `yaml:"contact"`
		Coupon  string `yaml:"coupon"`
	} `yaml:"webhooks"`
}

// LoadTargetsFile parses path. An empty path yields an empty file.
func LoadTargetsFile(path string) (TargetsFile, error) {
	var f TargetsFile
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read targets file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse YAML %q: %w", path, err)
	}
	return f, nil
}

// ResolveTargets builds the immutable outbound configuration. Environment
// values win over the targets file. A webhook URL that fails validation is
// logged and left unconfigured.
func (c *RelayConfig) ResolveTargets(ctx context.Context) (*relay.Targets, error) {
	file, err := LoadTargetsFile(c.TargetsFile)
	if err != nil {
		return nil, err
	}

	var opts []urlvalidation.Option
	if !c.WebhookDenyPrivate {
		opts = append(opts, urlvalidation.AllowPrivateIPs())
	}

	return &relay.Targets{
		GeminiAPIKey:      c.GeminiAPIKey,
		GeminiEndpoint:    gemini.Endpoint(firstNonEmpty(c.GeminiBaseURL, file.Gemini.BaseURL), firstNonEmpty(c.GeminiModel, file.Gemini.Model)),
		ContactWebhookURL: checkWebhook(ctx, "contact", firstNonEmpty(c.ContactWebhookURL, file.Webhooks.Contact), opts),
		CouponWebhookURL:  checkWebhook(ctx, "coupon", firstNonEmpty(c.CouponWebhookURL, file.Webhooks.Coupon), opts),
	}, nil
}

func checkWebhook(ctx context.Context, name, rawURL string, opts []urlvalidation.Option) string {
	if rawURL == "" {
		slog.WarnContext(ctx, "webhook not configured", slog.String("webhook", name))
		return ""
	}
	if err := urlvalidation.ValidateWebhookURL(rawURL, opts...); err != nil {
		// The URL path is often the webhook's only secret; log the host only.
		slog.WarnContext(ctx, "webhook URL rejected, treating as not configured",
			slog.String("webhook", name),
			slog.String("host", hostOnly(rawURL)),
			slog.String("error", err.Error()))
		return ""
	}
	return rawURL
}

func hostOnly(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
