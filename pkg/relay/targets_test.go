package relay

import "testing"

func TestTargetsRoute(t *testing.T) {
	full := &Targets{
		GeminiAPIKey:      "key",
		GeminiEndpoint:    "https://example.com/v1beta/models/m:generateContent",
		ContactWebhookURL: "https://hooks.example.com/contact",
		CouponWebhookURL:  "https://hooks.example.com/coupon",
	}

	tests := []struct {
		name     string
		targets  *Targets
		action   Action
		wantURL  string
		wantKind ErrorKind
		wantErr  bool
	}{
		{name: "analyze", targets: full, action: AnalyzeProcess, wantURL: full.GeminiEndpoint},
		{name: "roi", targets: full, action: CalculateRoi, wantURL: full.GeminiEndpoint},
		{name: "contact", targets: full, action: SubmitContactForm, wantURL: full.ContactWebhookURL},
		{name: "coupon", targets: full, action: SubmitCouponForm, wantURL: full.CouponWebhookURL},
		{name: "no key", targets: &Targets{GeminiEndpoint: "x"}, action: AnalyzeProcess, wantErr: true, wantKind: MissingCredential},
		{name: "no endpoint", targets: &Targets{GeminiAPIKey: "k"}, action: CalculateRoi, wantErr: true, wantKind: MissingConfiguration},
		{name: "no contact", targets: &Targets{}, action: SubmitContactForm, wantErr: true, wantKind: MissingConfiguration},
		{name: "no coupon", targets: &Targets{ContactWebhookURL: "x"}, action: SubmitCouponForm, wantErr: true, wantKind: MissingConfiguration},
		{name: "unknown", targets: full, action: Action("other"), wantErr: true, wantKind: UnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := tt.targets.Route(tt.action)
			if tt.wantErr {
				if KindOf(err) != tt.wantKind {
					t.Errorf("kind = %s, want %s", KindOf(err), tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Route: %v", err)
			}
			if target.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", target.URL, tt.wantURL)
			}
			if target.Family != tt.action.Family() {
				t.Errorf("family = %s, want %s", target.Family, tt.action.Family())
			}
		})
	}

	if key := func() string { tg, _ := full.Route(AnalyzeProcess); return tg.Secret }(); key != "key" {
		t.Errorf("generative secret = %q, want key", key)
	}
}

func TestTargetsConfigured(t *testing.T) {
	got := (&Targets{ContactWebhookURL: "https://hooks.example.com/c"}).Configured()

	want := map[Action]bool{
		AnalyzeProcess:    false,
		CalculateRoi:      false,
		SubmitContactForm: true,
		SubmitCouponForm:  false,
	}
	for a, w := range want {
		if got[a] != w {
			t.Errorf("Configured()[%s] = %v, want %v", a, got[a], w)
		}
	}
}
