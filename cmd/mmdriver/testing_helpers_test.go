package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/heapkit/internal/config"
)

// resetGlobals restores the flag variables and configuration for a test.
func resetGlobals(t *testing.T) {
	t.Helper()
	c := config.Default()
	c.Jobs = 2
	cfg = &c
	verbose, quiet, jsonOut = false, false, false
	genIDs, genMin, genMax, genRealloc, genReallocs, genWeight, genSeed = 50, 1, 1024, 0.3, 3, 1, 42
	checkOps = 0
	t.Cleanup(func() {
		cfg = nil
		jsonOut = false
	})
}

// genTrace writes a generated trace named name into a temp dir.
func genTrace(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if _, err := captureOutput(t, func() error { return runGen([]string{path}) }); err != nil {
		t.Fatalf("gen %s: %v", name, err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
