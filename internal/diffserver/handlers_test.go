package diffserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rybkr/xdiff/internal/xdiff"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newTestServer(t *testing.T, mode Mode, target Target) *Server {
	t.Helper()
	srv := New(Config{
		Mode:        mode,
		Target:      target,
		MergeConfig: xdiff.MergeConfig{MarkerSize: xdiff.DefaultMarkerSize},
	})
	t.Cleanup(func() {
		srv.rateLimiter.Close()
	})
	return srv
}

func TestHandleDiffComputesChangeScript(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.txt", "A\nB\nC\n")
	b := writeTempFile(t, dir, "b.txt", "A\nX\nB\nC\n")

	srv := newTestServer(t, ModeDiff, Target{LHS: a, RHS: b})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/diff", nil)
	srv.handleDiff(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var msg UpdateMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(msg.Changes) != 1 {
		t.Fatalf("got %d changes, want 1: %+v", len(msg.Changes), msg.Changes)
	}
}

func TestHandleDiffWrongMode(t *testing.T) {
	dir := t.TempDir()
	base := writeTempFile(t, dir, "base.txt", "A\n")
	side1 := writeTempFile(t, dir, "s1.txt", "A\n")
	side2 := writeTempFile(t, dir, "s2.txt", "A\n")

	srv := newTestServer(t, ModeMerge, Target{Base: base, Side1: side1, Side2: side2})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/diff", nil)
	srv.handleDiff(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandleMergeComputesResult(t *testing.T) {
	dir := t.TempDir()
	base := writeTempFile(t, dir, "base.txt", "L1\nL2\nL3\n")
	side1 := writeTempFile(t, dir, "s1.txt", "L1\nL2a\nL3\n")
	side2 := writeTempFile(t, dir, "s2.txt", "L1\nL2\nL3b\n")

	srv := newTestServer(t, ModeMerge, Target{Base: base, Side1: side1, Side2: side2})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/merge", nil)
	srv.handleMerge(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var msg UpdateMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.Merge == nil || msg.Merge.ConflictCount != 0 {
		t.Errorf("got %+v, want a conflict-free merge result", msg.Merge)
	}
	if msg.Merge.Buffer != "L1\nL2a\nL3b\n" {
		t.Errorf("Buffer = %q, want %q", msg.Merge.Buffer, "L1\nL2a\nL3b\n")
	}
}

func TestHandleDiffCachesByStat(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.txt", "A\n")
	b := writeTempFile(t, dir, "b.txt", "B\n")

	srv := newTestServer(t, ModeDiff, Target{LHS: a, RHS: b})

	first := srv.computeDiff()
	if srv.diffCache.Len() != 1 {
		t.Fatalf("diffCache.Len() = %d after first compute, want 1", srv.diffCache.Len())
	}

	second := srv.computeDiff()
	if len(first.Changes) != len(second.Changes) {
		t.Errorf("cached result diverged from the first computation")
	}
}

func TestHandleHealth(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.txt", "A\n")
	b := writeTempFile(t, dir, "b.txt", "A\n")
	srv := newTestServer(t, ModeDiff, Target{LHS: a, RHS: b})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.handleHealth(rec, req)

	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if status.Status != "ok" || status.Mode != "diff" {
		t.Errorf("got %+v, want status=ok mode=diff", status)
	}
}
