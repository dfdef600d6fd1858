package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func writePhoto(t *testing.T, dir, name string, size int) string {
	t.Helper()
	data := bytes.Repeat([]byte{0x42}, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCmd_WritesAvatar(t *testing.T) {
	avatar := []byte("\x89PNG\r\n\x1a\ncli")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"miiImage":"` + base64.StdEncoding.EncodeToString(avatar) + `"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	photo := writePhoto(t, dir, "me.jpg", 2048)
	out := filepath.Join(dir, "avatar.png")

	stdout, err := runCLI(t, "generate", photo, "--endpoint", srv.URL, "-o", out, "--summary")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, stdout)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, avatar) {
		t.Fatalf("output bytes differ")
	}

	var summary runSummary
	if err := yaml.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("summary is not yaml: %v\n%s", err, stdout)
	}
	if summary.Phase != "result" || summary.Progress != 100 || summary.Output != out {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestGenerateCmd_RejectsLargePhoto(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	dir := t.TempDir()
	photo := writePhoto(t, dir, "big.jpg", 7*1024*1024)

	_, err := runCLI(t, "generate", photo, "--endpoint", srv.URL, "-o", filepath.Join(dir, "out.png"))
	if err == nil || !strings.Contains(err.Error(), "File size exceeds 5MB limit") {
		t.Fatalf("expected size error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("no request expected, got %d", calls)
	}
}

func TestGenerateCmd_SurfacesModeration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"content flagged by moderation"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	photo := writePhoto(t, dir, "me.jpg", 1024)

	_, err := runCLI(t, "generate", photo, "--endpoint", srv.URL, "-o", filepath.Join(dir, "out.png"))
	if err == nil || !strings.Contains(err.Error(), "safety filters") {
		t.Fatalf("expected safety filter error, got %v", err)
	}
}
