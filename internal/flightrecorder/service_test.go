package flightrecorder_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mulhim/planner/internal/flightrecorder"
	"github.com/mulhim/planner/internal/testhelpers"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newRecorder(t *testing.T, c *clock) (*flightrecorder.Recorder, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "traces")
	r, err := flightrecorder.New(flightrecorder.Config{
		Logger:    testhelpers.NewLogger(testhelpers.NewWriter(t)),
		Cooldown:  time.Minute,
		Directory: dir,
		Now:       c.now,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err = r.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { r.Stop(t.Context()) })
	return r, dir
}

func traceFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read traces directory: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := flightrecorder.New(flightrecorder.Config{Directory: t.TempDir()}); err == nil {
		t.Error("New without a logger succeeded")
	}
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	if _, err := flightrecorder.New(flightrecorder.Config{Logger: logger}); err == nil {
		t.Error("New without a directory succeeded")
	}
}

func TestRecorder_CapturePushTimeout(t *testing.T) {
	c := &clock{t: time.Date(2025, 6, 11, 9, 30, 0, 0, time.UTC)}
	r, dir := newRecorder(t, c)

	path := r.CapturePushTimeout(t.Context())
	if path == "" {
		t.Fatal("first capture was skipped")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat trace: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "push-timeout-20250611-093000") || !strings.HasSuffix(name, ".trace") {
		t.Errorf("unexpected trace file name %s", name)
	}

	c.t = c.t.Add(30 * time.Second)
	if got := r.CapturePushTimeout(t.Context()); got != "" {
		t.Errorf("capture during cooldown wrote %s", got)
	}
	if got := traceFiles(t, dir); len(got) != 1 {
		t.Errorf("got %d trace files during cooldown, want 1", len(got))
	}

	c.t = c.t.Add(time.Minute)
	if got := r.CapturePushTimeout(t.Context()); got == "" {
		t.Error("capture after cooldown was skipped")
	}
	if got := traceFiles(t, dir); len(got) != 2 {
		t.Errorf("got %d trace files, want 2", len(got))
	}
}
