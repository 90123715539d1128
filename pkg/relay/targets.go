package relay

// Target is the resolved outbound destination for one action.
type Target struct {
	Family Family
	URL    string
	// Secret is the credential the call requires; empty for webhooks.
	Secret string
}

// Targets is the outbound configuration resolved once at start-up. It is
// shared read-only by every request and must not be modified afterwards.
type Targets struct {
	GeminiAPIKey      string
	GeminiEndpoint    string
	ContactWebhookURL string
	CouponWebhookURL  string
}

// Route resolves the target for a. Actions that are not backed by a
// credential or URL fail here, before any network call.
func (t *Targets) Route(a Action) (Target, error) {
	switch a {
	case AnalyzeProcess, CalculateRoi:
		if t.GeminiAPIKey == "" {
			return Target{}, newError(MissingCredential, MsgGeminiKeyMissing, nil)
		}
		if t.GeminiEndpoint == "" {
			return Target{}, newError(MissingConfiguration, MsgGeminiEndpointMissing, nil)
		}
		return Target{Family: FamilyGenerative, URL: t.GeminiEndpoint, Secret: t.GeminiAPIKey}, nil
	case SubmitContactForm:
		return webhookTarget(t.ContactWebhookURL)
	case SubmitCouponForm:
		return webhookTarget(t.CouponWebhookURL)
	default:
		return Target{}, newError(UnknownAction, MsgInvalidAction, nil)
	}
}

func webhookTarget(url string) (Target, error) {
	if url == "" {
		return Target{}, newError(MissingConfiguration, MsgWebhookURLMissing, nil)
	}
	return Target{Family: FamilyWebhook, URL: url}, nil
}

// Configured reports, per action, whether a call could be attempted.
func (t *Targets) Configured() map[Action]bool {
	out := make(map[Action]bool, 4)
	for _, a := range Actions() {
		_, err := t.Route(a)
		out[a] = err == nil
	}
	return out
}
