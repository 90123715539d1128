package relay

import (
	"encoding/json"
	"fmt"
)

// Action selects which downstream behavior an inbound request triggers.
type Action string

const (
	AnalyzeProcess    Action = "analyzeProcess"
	CalculateRoi      Action = "calculateRoi"
	SubmitContactForm Action = "submitContactForm"
	SubmitCouponForm  Action = "submitCouponForm"
)

// Family groups actions that share an outbound call path.
type Family int

const (
	FamilyGenerative Family = iota + 1
	FamilyWebhook
)

func (f Family) String() string {
	switch f {
	case FamilyGenerative:
		return "generative"
	case FamilyWebhook:
		return "webhook"
	default:
		return "unknown"
	}
}

// Actions lists the closed set of accepted actions.
func Actions() []Action {
	return []Action{AnalyzeProcess, CalculateRoi, SubmitContactForm, SubmitCouponForm}
}

// Family returns the call path for the action, or zero for unknown actions.
func (a Action) Family() Family {
	switch a {
	case AnalyzeProcess, CalculateRoi:
		return FamilyGenerative
	case SubmitContactForm, SubmitCouponForm:
		return FamilyWebhook
	default:
		return 0
	}
}

// Valid reports whether a is one of the accepted actions.
func (a Action) Valid() bool {
	return a.Family() != 0
}

// ParseAction matches s exactly against the accepted actions.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// actionFromJSON decodes the raw "action" member. Missing, null and
// non-string values are all unknown.
func actionFromJSON(raw json.RawMessage) (Action, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("action missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("action is not a string: %w", err)
	}
	return ParseAction(s)
}
