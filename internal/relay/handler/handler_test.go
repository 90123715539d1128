package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/automatelab/relay/pkg/gemini"
	"github.com/automatelab/relay/pkg/relay"
	"github.com/automatelab/relay/pkg/webhook"
)

const geminiOK = `{"candidates":[{"content":{"parts":[{"text":"analysis"}]}}]}`

type fakeUpstream struct {
	*httptest.Server
	calls atomic.Int64
	last  atomic.Value
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	t.Helper()
	u := &fakeUpstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		b, _ := io.ReadAll(r.Body)
		u.last.Store(string(b))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *fakeUpstream) lastBody() string {
	s, _ := u.last.Load().(string)
	return s
}

type fixture struct {
	targets    *relay.Targets
	dispatcher *relay.Dispatcher
	gemini     *fakeUpstream
	contact    *fakeUpstream
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := newFakeUpstream(t, http.StatusOK, geminiOK)
	c := newFakeUpstream(t, http.StatusOK, `{"ok":true}`)
	targets := &relay.Targets{
		GeminiAPIKey:      "test-key",
		GeminiEndpoint:    gemini.Endpoint(g.URL, "test-model"),
		ContactWebhookURL: c.URL + "/contact",
	}
	return &fixture{
		targets:    targets,
		dispatcher: relay.NewDispatcher(targets, gemini.NewClient(), webhook.NewClient()),
		gemini:     g,
		contact:    c,
	}
}
