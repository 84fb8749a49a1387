package util

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndReadJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "table.json")
	if err := SaveJson(path, map[string]float64{"0,1|E": 0.42}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out := make(map[string]float64)
	found, err := ReadJson(path, &out)
	if err != nil || !found {
		t.Fatalf("read: %v %v", found, err)
	}
	if out["0,1|E"] != 0.42 {
		t.Fatalf("expected 0.42 got %v", out)
	}

	found, err = ReadJson(filepath.Join(t.TempDir(), "missing.json"), &out)
	if err != nil || found {
		t.Fatalf("expected a missing file to be reported as not found, got %v %v", found, err)
	}
}

func TestCumulativeRate(t *testing.T) {
	got := CumulativeRate([]bool{false, true, true, false})
	want := []float64{0, 0.5, 2.0 / 3.0, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"A1":          "A1",
		"A1/run 2":    "A1_run_2",
		"  ":          "unnamed",
		"forager.v2-": "forager.v2-",
	}
	for in, want := range cases {
		if got := SafeName(in); got != want {
			t.Fatalf("expected %q for %q got %q", want, in, got)
		}
	}
}

func TestRunLineKeepsLastLine(t *testing.T) {
	out := NewRunLine()
	out.Write([]byte("Episode 1/2\n"))
	out.Write([]byte("Episode 2/2\nEpisode 3/3\n"))
	if got := out.Get(); got != "Episode 3/3" {
		t.Fatalf("expected the last line got %q", got)
	}
	out.Write([]byte("\n"))
	if got := out.Get(); got != "Episode 3/3" {
		t.Fatalf("expected a blank write to keep the line, got %q", got)
	}
}

func TestTerminalPrinterStops(t *testing.T) {
	printer := NewTerminalPrinter(time.Millisecond)
	line := printer.NewOutput()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	printer.Start(ctx)
	line.Write([]byte("Episode 1/1\n"))

	done := make(chan struct{})
	go func() {
		printer.Stop()
		printer.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected Stop to return")
	}
}
