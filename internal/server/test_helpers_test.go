package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"trinkspiel/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newTestApp starts the in-memory service. Tweaks to srv must happen before
// the first request.
func newTestApp(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

// newClient returns a browser-like client that keeps cookies between calls.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doRequest(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	return doRequestWithHeader(t, client, ts, method, path, payload, nil)
}

func doRequestWithHeader(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any, header http.Header) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, resp *http.Response, status int) map[string]any {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func expectError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	body := expectStatus(t, resp, status)
	if body["error"] != message {
		t.Fatalf("expected error %q, got %#v", message, body["error"])
	}
}

func createRoom(t *testing.T, client *http.Client, ts *httptest.Server, name string) (string, string) {
	t.Helper()
	resp := doRequest(t, client, ts, http.MethodPost, "/api/rooms", map[string]string{"name": name})
	body := expectStatus(t, resp, http.StatusCreated)
	code, _ := body["code"].(string)
	token, _ := body["host_token"].(string)
	if len(code) != 4 || token == "" {
		t.Fatalf("unexpected create response %#v", body)
	}
	return code, token
}

func roomField(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	current, ok := body["room"].(map[string]any)
	if !ok {
		t.Fatalf("expected room object, got %#v", body["room"])
	}
	return current
}
