package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoSendsTokenAndBody(t *testing.T) {
	var gotAuth, gotType, gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("X-Trace-Id", "trace-7")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":10000,"message":"Created","data":{"view_id":"v1"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, func() string { return "tok" })
	resp, err := client.Do(context.Background(), http.MethodPost, "/api/v1/views/listing", nil, []byte(`{"query":"x"}`))
	if err != nil {
		t.Fatalf("do failed: %v", err)
	}
	if gotAuth != "Bearer tok" || gotType != "application/json" || gotBody != `{"query":"x"}` {
		t.Fatalf("unexpected request: auth=%q type=%q body=%q", gotAuth, gotType, gotBody)
	}
	if gotPath != "/api/v1/views/listing" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if resp.StatusCode != http.StatusCreated || resp.TraceID() != "trace-7" {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.TraceID())
	}

	env, err := resp.DecodeEnvelope()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if env.Code != 10000 || string(env.Data) != `{"view_id":"v1"}` {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestDoWithoutTokenOmitsAuthorization(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, func() string { return "" })
	resp, err := client.Do(context.Background(), http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		t.Fatalf("do failed: %v", err)
	}
	if sawAuth {
		t.Fatal("expected no authorization header")
	}
	if _, err := resp.DecodeEnvelope(); err == nil {
		t.Fatal("expected decode error for empty body")
	}
}

func TestSetTimeoutIgnoresNonPositive(t *testing.T) {
	client := New("http://x", 2*time.Second, nil)
	client.SetTimeout(0)
	if client.Timeout() != 2*time.Second {
		t.Fatalf("timeout changed to %s", client.Timeout())
	}
	client.SetTimeout(5 * time.Second)
	if client.Timeout() != 5*time.Second {
		t.Fatalf("timeout = %s", client.Timeout())
	}
}
