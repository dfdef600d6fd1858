package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type echoBody struct {
	Value string `json:"value"`
}

func TestPostJSON_DecodesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var in echoBody
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(echoBody{Value: "bad " + in.Value})
	}))
	defer srv.Close()

	resp, err := PostJSON[echoBody, echoBody](srv.Client(), context.Background(), srv.URL, echoBody{Value: "x"}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.OK() {
		t.Fatalf("400 must not be OK")
	}
	if resp.Body.Value != "bad x" {
		t.Fatalf("got %q", resp.Body.Value)
	}
}

func TestPostJSON_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	resp, err := PostJSON[echoBody, echoBody](srv.Client(), context.Background(), srv.URL, echoBody{}, nil)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("error should carry a body snippet: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
