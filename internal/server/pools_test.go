package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func createPool(t *testing.T, h http.Handler) poolResponse {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/v1/pools", sampleDoc)
	wantStatus(t, rr, http.StatusCreated)
	resp := decode[poolResponse](t, rr)
	if rr.Header().Get("Location") != "/v1/pools/"+resp.ID {
		t.Errorf("Location = %q", rr.Header().Get("Location"))
	}
	return resp
}

func TestPoolLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()
	created := createPool(t, h)
	base := "/v1/pools/" + created.ID

	if created.Version != 1 || len(created.Layout.Lanes) != 4 {
		t.Fatalf("created = version %d, %d lanes", created.Version, len(created.Layout.Lanes))
	}

	got := decode[poolResponse](t, do(t, h, http.MethodGet, base, ""))
	if got.ID != created.ID || got.Version != 1 {
		t.Errorf("get = %+v", got)
	}

	rr := do(t, h, http.MethodPut, base+"/lanes?version=1", `[{"id":"x"},{"id":"y","size":50}]`)
	wantStatus(t, rr, http.StatusOK)
	updated := decode[poolResponse](t, rr)
	if updated.Version != 2 || len(updated.Layout.Lanes) != 2 {
		t.Fatalf("after lanes = version %d, %d lanes", updated.Version, len(updated.Layout.Lanes))
	}

	// The edit was based on version 1.
	rr = do(t, h, http.MethodPut, base+"/lanes?version=1", `[{"id":"z"}]`)
	wantStatus(t, rr, http.StatusConflict)

	rr = do(t, h, http.MethodPut, base+"/lanes", `[{"id":"a"},{"id":"a"}]`)
	wantStatus(t, rr, http.StatusUnprocessableEntity)

	rr = do(t, h, http.MethodPut, base+"/lanes", `[{"size":"big"}]`)
	wantStatus(t, rr, http.StatusUnprocessableEntity)

	got = decode[poolResponse](t, do(t, h, http.MethodGet, base, ""))
	if got.Version != 2 || len(got.Document.Lanes) != 2 {
		t.Errorf("failed edits changed the pool: version %d, %d lanes", got.Version, len(got.Document.Lanes))
	}

	lane := decode[laneResponse](t, do(t, h, http.MethodGet, base+"/lanes/y", ""))
	if lane.Height != 50 || lane.Pointer != "lanes/1" || !lane.Fixed {
		t.Errorf("lane y = %+v", lane)
	}
	wantStatus(t, do(t, h, http.MethodGet, base+"/lanes/nope", ""), http.StatusNotFound)

	ms := decode[milestoneResponse](t, do(t, h, http.MethodGet, base+"/milestones/milestone_0", ""))
	if ms.Width != 40 || ms.Label != "Q1" {
		t.Errorf("milestone_0 = %+v", ms)
	}
	wantStatus(t, do(t, h, http.MethodGet, base+"/milestones/q9", ""), http.StatusNotFound)

	rr = do(t, h, http.MethodPut, base+"/milestones", `[{"id":"only","label":"All"}]`)
	wantStatus(t, rr, http.StatusOK)
	if m := decode[poolResponse](t, rr).Layout.Milestones; len(m) != 1 || m[0].ID != "only" {
		t.Errorf("milestones = %+v", m)
	}

	rr = do(t, h, http.MethodDelete, base, "")
	wantStatus(t, rr, http.StatusNoContent)
	wantStatus(t, do(t, h, http.MethodGet, base, ""), http.StatusNotFound)
}

func TestPoolPatch(t *testing.T) {
	h := newTestServer(t).Handler()
	base := "/v1/pools/" + createPool(t, h).ID

	rr := do(t, h, http.MethodPatch, base, `{"width":500}`)
	wantStatus(t, rr, http.StatusOK)
	resp := decode[poolResponse](t, rr)
	if resp.Document.Width != 500 || resp.Document.Height != 300 || resp.Layout.Bounds.Width != 500 {
		t.Errorf("after patch = %+v", resp.Document)
	}

	wantStatus(t, do(t, h, http.MethodPatch, base, `{"height":-1}`), http.StatusBadRequest)
	wantStatus(t, do(t, h, http.MethodPatch, base, `{"colour":"red"}`), http.StatusBadRequest)
	wantStatus(t, do(t, h, http.MethodPatch, base+"?version=abc", `{}`), http.StatusBadRequest)
}

func TestPoolAutoResize(t *testing.T) {
	h := newTestServer(t).Handler()
	rr := do(t, h, http.MethodPost, "/v1/pools", `{"width":100,"height":100,"lanes":[{"size":400}]}`)
	wantStatus(t, rr, http.StatusCreated)
	base := "/v1/pools/" + decode[poolResponse](t, rr).ID

	rr = do(t, h, http.MethodPost, base+"/autoresize", "")
	wantStatus(t, rr, http.StatusOK)
	resp := decode[poolResponse](t, rr)
	if resp.Document.Width != 100 || resp.Document.Height != 400 {
		t.Errorf("after autoresize = %gx%g, want 100x400", resp.Document.Width, resp.Document.Height)
	}
	if resp.Version != 2 {
		t.Errorf("version = %d, want 2", resp.Version)
	}
}

func TestPoolHit(t *testing.T) {
	h := newTestServer(t).Handler()
	base := "/v1/pools/" + createPool(t, h).ID

	resp := decode[hitResponse](t, do(t, h, http.MethodGet, base+"/hit?x=200&y=80", ""))
	if len(resp.Lanes) != 1 || resp.Lanes[0] != "plan" || resp.Milestone != "milestone_1" {
		t.Errorf("hit = %+v", resp)
	}

	resp = decode[hitResponse](t, do(t, h, http.MethodGet, base+"/hit?x=20&y=10", ""))
	if len(resp.Lanes) != 0 || resp.Milestone != "milestone_0" {
		t.Errorf("hit in milestone strip = %+v", resp)
	}

	wantStatus(t, do(t, h, http.MethodGet, base+"/hit?x=a&y=1", ""), http.StatusBadRequest)
}

func TestPoolRender(t *testing.T) {
	h := newTestServer(t).Handler()
	base := "/v1/pools/" + createPool(t, h).ID

	rr := do(t, h, http.MethodGet, base+"/render", "")
	wantStatus(t, rr, http.StatusOK)
	if !strings.HasPrefix(rr.Body.String(), "<svg") || !strings.Contains(rr.Body.String(), `id="lane-plan"`) {
		t.Errorf("render = %.80q", rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, base+"/render?format=json", "")
	wantStatus(t, rr, http.StatusOK)
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
}

func TestPoolNotFound(t *testing.T) {
	h := newTestServer(t).Handler()
	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/v1/pools/not-a-uuid"},
		{http.MethodGet, "/v1/pools/6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{http.MethodPatch, "/v1/pools/6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{http.MethodGet, "/v1/pools/not-a-uuid/hit?x=1&y=1"},
		{http.MethodPost, "/v1/pools/not-a-uuid/autoresize"},
	}
	for _, tt := range tests {
		body := ""
		if tt.method == http.MethodPatch {
			body = "{}"
		}
		rr := do(t, h, tt.method, tt.path, body)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tt.method, tt.path, rr.Code)
		}
	}

	// Deleting an unknown pool is not an error.
	wantStatus(t, do(t, h, http.MethodDelete, "/v1/pools/not-a-uuid", ""), http.StatusNoContent)
}

func TestPoolsPersistInSessionDir(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{CacheDir: t.TempDir(), SessionDir: dir, SessionTTL: time.Hour}

	s, err := Open(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	created := createPool(t, s.Handler())
	s.Close()

	if _, err := os.Stat(filepath.Join(dir, created.ID+".json")); err != nil {
		t.Fatalf("session file: %v", err)
	}

	// A second server over the same directory sees the pool.
	s, err = Open(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	got := decode[poolResponse](t, do(t, s.Handler(), http.MethodGet, "/v1/pools/"+created.ID, ""))
	if got.ID != created.ID || got.Version != created.Version {
		t.Errorf("reopened pool = %s v%d, want %s v%d", got.ID, got.Version, created.ID, created.Version)
	}
}
