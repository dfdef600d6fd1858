package services

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		if json.Unmarshal(sc.Bytes(), &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()
	out := &syncBuffer{}
	log.SetOutput(out)
	log.SetFormatter(log.JSONFormatter)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFormatter(log.TextFormatter)
		log.SetLevel(log.InfoLevel)
	})
	return out
}

func TestRequestLogger_SessionFields(t *testing.T) {
	logs := captureLogs(t)

	app := fiber.New()
	app.Use(RequestLogger())
	app.Post("/api/sessions/:id/reset", func(c *fiber.Ctx) error {
		HttpLogger("reset", c).Info("resetting")
		return c.SendStatus(fiber.StatusConflict)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sessions/abc/reset", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	reqID := resp.Header.Get("X-Request-Id")
	if reqID == "" {
		t.Fatalf("missing request id header")
	}

	var handler, completed map[string]any
	for _, line := range logs.lines() {
		switch line["msg"] {
		case "resetting":
			handler = line
		case "request completed":
			completed = line
		}
	}

	if handler == nil || handler["session"] != "abc" || handler["reqId"] != reqID || handler["action"] != "reset" {
		t.Fatalf("handler log = %v", handler)
	}
	if completed == nil {
		t.Fatalf("no completion log")
	}
	if completed["route"] != "/api/sessions/:id/reset" || completed["session"] != "abc" || completed["level"] != "warn" {
		t.Fatalf("completion log = %v", completed)
	}
	if status, _ := completed["status"].(float64); int(status) != fiber.StatusConflict {
		t.Fatalf("status = %v", completed["status"])
	}
}
