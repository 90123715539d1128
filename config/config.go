package config

import (
	"time"

	"github.com/pitabwire/frame/config"
)

// RelayConfig holds configuration for the relay service. It is loaded once
// at start-up; missing targets degrade per action instead of failing here.
type RelayConfig struct {
	config.ConfigurationDefault

	// Gemini
	GeminiAPIKey  string `envDefault:""                env:"GEMINI_API_KEY"`
	GeminiBaseURL string `envDefault:""                env:"GEMINI_BASE_URL"`
	GeminiModel   string `envDefault:""                env:"GEMINI_MODEL"`

	// n8n webhooks
	ContactWebhookURL    string `envDefault:""      env:"N8N_CONTACT_WEBHOOK"`
	CouponWebhookURL     string `envDefault:""      env:"N8N_COUPON_WEBHOOK"`
	WebhookSigningSecret string `envDefault:""      env:"WEBHOOK_SIGNING_SECRET"`
	WebhookDenyPrivate   bool   `envDefault:"false" env:"WEBHOOK_DENY_PRIVATE"`

	// Inbound
	RelayPath           string `envDefault:"/api/proxy" env:"RELAY_PATH"`
	MaxRequestBytes     int64  `envDefault:"1048576"    env:"MAX_REQUEST_BYTES"`
	StrictRequestErrors bool   `envDefault:"false"      env:"STRICT_REQUEST_ERRORS"`

	UpstreamTimeoutSec int    `envDefault:"10" env:"UPSTREAM_TIMEOUT_SEC"`
	TargetsFile        string `envDefault:""   env:"RELAY_TARGETS_FILE"`
}

// UpstreamTimeout bounds each outbound call.
func (c *RelayConfig) UpstreamTimeout() time.Duration {
	if c.UpstreamTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.UpstreamTimeoutSec) * time.Second
}
