package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/trace"
)

func TestGenCommand(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "plain", file: "plain.rep"},
		{name: "gzip", file: "packed.rep.gz"},
		{name: "zstd", file: "packed.rep.zst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			path := filepath.Join(t.TempDir(), tt.file)
			out, err := captureOutput(t, func() error { return runGen([]string{path}) })
			require.NoError(t, err)
			assertContains(t, out, []string{"Wrote", "seed 42"})

			tr, err := trace.Open(path)
			require.NoError(t, err)
			assert.Equal(t, 50, tr.NumIDs)
			assert.Equal(t, tr.PeakLive(), tr.SuggestedHeap)
		})
	}
}

func TestGenCommand_BadRealloc(t *testing.T) {
	resetGlobals(t)
	genRealloc = 1.5
	_, err := captureOutput(t, func() error {
		return runGen([]string{filepath.Join(t.TempDir(), "x.rep")})
	})
	require.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	resetGlobals(t)
	a := genTrace(t, "alpha.rep")
	b := genTrace(t, "beta.rep.gz")

	out, err := captureOutput(t, func() error { return runRun(context.Background(), []string{a, b}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"TRACE", "alpha", "beta", "Total", "yes"})
}

func TestRunCommand_JSON(t *testing.T) {
	resetGlobals(t)
	jsonOut = true
	path := genTrace(t, "gamma.rep")

	out, err := captureOutput(t, func() error { return runRun(context.Background(), []string{path}) })
	require.NoError(t, err)
	assertJSON(t, out)

	var report struct {
		Results []struct {
			Name  string `json:"name"`
			Valid bool   `json:"valid"`
		} `json:"results"`
		Summary struct {
			Traces int  `json:"traces"`
			Valid  bool `json:"valid"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, "gamma", report.Results[0].Name)
	assert.True(t, report.Summary.Valid)
}

func TestRunCommand_ConfiguredTraces(t *testing.T) {
	resetGlobals(t)
	path := genTrace(t, "conf.rep")
	cfg.Traces = []config.TraceSpec{{Path: path, Weight: 5}}
	jsonOut = true

	out, err := captureOutput(t, func() error { return runRun(context.Background(), nil) })
	require.NoError(t, err)
	assertContains(t, out, []string{`"weight": 5`})
}

func TestRunCommand_NoTraces(t *testing.T) {
	resetGlobals(t)
	_, err := captureOutput(t, func() error { return runRun(context.Background(), nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no traces")
}

func TestRunCommand_FailingTrace(t *testing.T) {
	resetGlobals(t)
	path := filepath.Join(t.TempDir(), "huge.rep")
	require.NoError(t, os.WriteFile(path, []byte("0\n1\n1\n1\na 0 100000\n"), 0o644))
	cfg.MaxHeap = 32 << 10

	out, err := captureOutput(t, func() error { return runRun(context.Background(), []string{path}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 traces failed")
	assertContains(t, out, []string{"huge", "no", "out of memory"})
}

func TestCheckCommand(t *testing.T) {
	resetGlobals(t)
	path := filepath.Join(t.TempDir(), "small.rep")
	require.NoError(t, os.WriteFile(path, []byte("0\n2\n3\n1\na 0 100\na 1 200\nf 0\n"), 0o644))

	out, err := captureOutput(t, func() error { return runCheck(context.Background(), []string{path}) })
	require.NoError(t, err)
	assertContains(t, out, []string{
		"OFFSET", "allocated", "free", "Heap OK",
		"3 blocks: 1 allocated",
	})
}

func TestCheckCommand_StopAfter(t *testing.T) {
	resetGlobals(t)
	jsonOut = true
	checkOps = 2
	path := filepath.Join(t.TempDir(), "small.rep")
	require.NoError(t, os.WriteFile(path, []byte("0\n2\n3\n1\na 0 100\na 1 200\nf 0\n"), 0o644))

	out, err := captureOutput(t, func() error { return runCheck(context.Background(), []string{path}) })
	require.NoError(t, err)
	assertJSON(t, out)
	assertContains(t, out, []string{`"ops": 2`, `"Ptr": 16`, `"Size": 112`})
}

func TestApplyRunFlags(t *testing.T) {
	resetGlobals(t)
	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Set("arena", config.ArenaMapped))
	require.NoError(t, cmd.Flags().Set("jobs", "7"))

	applyRunFlags(cmd, cfg)
	assert.Equal(t, config.ArenaMapped, cfg.Arena)
	assert.Equal(t, 7, cfg.Jobs)
	assert.Equal(t, config.Default().ChunkSize, cfg.ChunkSize, "unset flags keep the configured value")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "12,346", formatRate(12345.6))
	assert.Equal(t, "87.5%", formatPercent(0.875))
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "4.0 KB", formatBytes(4096))
}
