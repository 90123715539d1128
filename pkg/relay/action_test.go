package relay

import (
	"encoding/json"
	"testing"
)

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(string(a))
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %q, %v", a, got, err)
		}
	}

	for _, s := range []string{"", "analyzeprocess", "ANALYZE_PROCESS", "submitContactForm "} {
		if _, err := ParseAction(s); err == nil {
			t.Errorf("ParseAction(%q) should fail", s)
		}
	}
}

func TestActionFamilies(t *testing.T) {
	tests := []struct {
		action Action
		want   Family
	}{
		{AnalyzeProcess, FamilyGenerative},
		{CalculateRoi, FamilyGenerative},
		{SubmitContactForm, FamilyWebhook},
		{SubmitCouponForm, FamilyWebhook},
		{Action("x"), 0},
	}
	for _, tt := range tests {
		if got := tt.action.Family(); got != tt.want {
			t.Errorf("%q.Family() = %s, want %s", tt.action, got, tt.want)
		}
	}
}

func TestActionFromJSON(t *testing.T) {
	if a, err := actionFromJSON(json.RawMessage(`"submitCouponForm"`)); err != nil || a != SubmitCouponForm {
		t.Errorf("actionFromJSON = %q, %v", a, err)
	}
	for _, raw := range []string{``, `null`, `1`, `{}`, `["analyzeProcess"]`} {
		if _, err := actionFromJSON(json.RawMessage(raw)); err == nil {
			t.Errorf("actionFromJSON(%s) should fail", raw)
		}
	}
}
