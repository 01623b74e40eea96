// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package embeddings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

// redirectTransport rewrites every outgoing request to target's host,
// so GeminiEmbedder's hardcoded API URL can be pointed at a local
// httptest.Server without changing production code.
type redirectTransport struct {
	target *url.URL
	base   http.RoundTripper
}

func (t redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return t.base.RoundTrip(req)
}

func newRedirectingClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server URL: %v", err)
	}
	return &http.Client{Transport: redirectTransport{target: u, base: srv.Client().Transport}}
}

func TestGeminiEmbedder_EncodeSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("test-key", "embedding-001")
	e.httpClient = newRedirectingClient(t, srv)

	out, err := e.Encode(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(out) != 1 || len(out[0]) != 3 {
		t.Fatalf("unexpected output shape: %+v", out)
	}
}

func TestGeminiEmbedder_EncodeRetriesThenGivesUp(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewGeminiEmbedder("test-key", "embedding-001")
	e.httpClient = newRedirectingClient(t, srv)
	e.retry.MaxAttempts = 2
	e.retry.Backoff = func(int) time.Duration { return time.Millisecond }

	if _, err := e.Encode(context.Background(), []string{"hello"}); err == nil {
		t.Fatal("expected an error from a persistently failing backend")
	}
	if calls != e.retry.MaxAttempts {
		t.Fatalf("expected %d attempts, got %d", e.retry.MaxAttempts, calls)
	}
}
