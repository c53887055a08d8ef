package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObservePass(t *testing.T) {
	r := NewRecorder()
	r.ObservePass("skyline", time.Millisecond, 40, true)
	r.ObservePass("skyline", time.Millisecond, 40, false)
	r.ObservePass("maxrect", 2*time.Millisecond, 55, true)

	if got := testutil.ToFloat64(r.passes.WithLabelValues("skyline")); got != 2 {
		t.Errorf("skyline passes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.improvements.WithLabelValues("skyline")); got != 1 {
		t.Errorf("skyline improvements = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.bestScore.WithLabelValues("maxrect")); got != 55 {
		t.Errorf("maxrect best score = %v, want 55", got)
	}
	if n := testutil.CollectAndCount(r.passDuration); n != 2 {
		t.Errorf("pass duration series = %d, want 2", n)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObservePass("shelf", time.Millisecond, 1, true)
	if r.Registry() != nil {
		t.Error("nil recorder returned a registry")
	}
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Errorf("WriteTextfile on nil recorder: %v", err)
	}
	if err := r.Push(context.Background(), "http://127.0.0.1:1", "job"); err != nil {
		t.Errorf("Push on nil recorder: %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObservePass("shelf", time.Millisecond, 12, true)

	path := filepath.Join(t.TempDir(), "rectfit.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`rectfit_passes_total{strategy="shelf"} 1`,
		`rectfit_best_score{strategy="shelf"} 12`,
		"# TYPE rectfit_pass_duration_seconds histogram",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q:\n%s", want, text)
		}
	}
}

func TestRecorder_Push(t *testing.T) {
	var hits atomic.Int32
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		gotPath.Store(req.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.ObservePass("maxrect", time.Millisecond, 3, true)
	if err := r.Push(context.Background(), srv.URL, "rectfit"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("pushgateway hit %d times, want 1", hits.Load())
	}
	if p, _ := gotPath.Load().(string); p != "/metrics/job/rectfit" {
		t.Errorf("push path = %q", p)
	}
}
