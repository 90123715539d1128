package gemini

import (
	"encoding/json"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "first part", body: `{"candidates":[{"content":{"parts":[{"text":"a"},{"text":"b"}]}},{"content":{"parts":[{"text":"c"}]}}]}`, want: "a"},
		{name: "empty object", body: `{}`, want: FallbackText},
		{name: "empty candidates", body: `{"candidates":[]}`, want: FallbackText},
		{name: "no content", body: `{"candidates":[{"finishReason":"SAFETY"}]}`, want: FallbackText},
		{name: "null content", body: `{"candidates":[{"content":null}]}`, want: FallbackText},
		{name: "no parts", body: `{"candidates":[{"content":{"role":"model"}}]}`, want: FallbackText},
		{name: "part without text", body: `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}}]}`, want: FallbackText},
		{name: "empty text", body: `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`, want: FallbackText},
		{name: "candidates object", body: `{"candidates":{}}`, want: FallbackText},
		{name: "candidates string", body: `{"candidates":"x"}`, want: FallbackText},
		{name: "candidate null", body: `{"candidates":[null]}`, want: FallbackText},
		{name: "content array", body: `{"candidates":[{"content":[]}]}`, want: FallbackText},
		{name: "parts object", body: `{"candidates":[{"content":{"parts":{"text":"a"}}}]}`, want: FallbackText},
		{name: "part string", body: `{"candidates":[{"content":{"parts":["a"]}}]}`, want: FallbackText},
		{name: "text number", body: `{"candidates":[{"content":{"parts":[{"text":5}]}}]}`, want: FallbackText},
		{name: "role number", body: `{"candidates":[{"content":{"role":1,"parts":[{"text":"ok"}]}}]}`, want: "ok"},
		{name: "top-level array", body: `[]`, want: FallbackText},
		{name: "top-level string", body: `"hello"`, want: FallbackText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp GenerateResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := ExtractText(&resp); got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := ExtractText(nil); got != FallbackText {
		t.Errorf("ExtractText(nil) = %q, want fallback", got)
	}
}
