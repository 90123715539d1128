package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientPostSuccess(t *testing.T) {
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("missing Content-Type header")
		}
		if r.Header.Get(SignatureHeader) != "" {
			t.Error("unexpected signature header without a secret")
		}
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ignored":true}`))
	}))
	defer ts.Close()

	data := json.RawMessage(`{"name":"Dana","phone":"050-0000000"}`)
	if err := NewClient().Post(t.Context(), ts.URL, data); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if string(gotBody) != string(data) {
		t.Errorf("body = %s, want %s", gotBody, data)
	}
}

func TestClientPostNilDataSendsEmptyBody(t *testing.T) {
	var n atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		n.Store(int64(len(b)))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	if err := NewClient().Post(t.Context(), ts.URL, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if n.Load() != 0 {
		t.Errorf("body length = %d, want 0", n.Load())
	}
}

func TestClientPostSigned(t *testing.T) {
	secret := "webhook-secret-123"
	var sigValid atomic.Bool

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Header.Get(SignatureHeader) == Sign(secret, body) {
			sigValid.Store(true)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewClient(WithSigningSecret(secret))
	if err := c.Post(t.Context(), ts.URL, json.RawMessage(`{"coupon":"SAVE10"}`)); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !sigValid.Load() {
		t.Error("webhook signature was not valid")
	}
}

func TestClientPostHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("workflow crashed"))
	}))
	defer ts.Close()

	err := NewClient().Post(t.Context(), ts.URL, json.RawMessage(`{}`))
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", se.StatusCode)
	}
	if se.Body != "workflow crashed" {
		t.Errorf("body = %q, want %q", se.Body, "workflow crashed")
	}
}

func TestClientPostMissingURL(t *testing.T) {
	if err := NewClient().Post(t.Context(), "", nil); !errors.Is(err, ErrMissingURL) {
		t.Errorf("err = %v, want ErrMissingURL", err)
	}
}

func TestClientPostTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(WithTimeout(50 * time.Millisecond))
	if err := c.Post(t.Context(), ts.URL, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected timeout error")
	}
}
