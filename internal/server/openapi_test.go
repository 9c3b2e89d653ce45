package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestOpenAPISpec(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodGet, "/openapi.json", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content-type = %q", ct)
	}

	var spec struct {
		Openapi string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	if spec.Openapi == "" {
		t.Error("missing openapi version")
	}
	if spec.Info.Title != "EmberQuest API" {
		t.Errorf("title = %q", spec.Info.Title)
	}

	for _, path := range []string{
		"/api/session",
		"/api/game/state",
		"/api/game/position",
		"/api/game/event",
		"/api/game/events",
		"/ws/game",
		"/api/admin/login",
		"/api/admin/scenarios",
		"/api/admin/scenarios/{id}",
		"/api/admin/attempts",
		"/healthz",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec is missing path %s", path)
		}
	}
}
