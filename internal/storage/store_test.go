package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/evoviz/internal/jitter"
	"github.com/san-kum/evoviz/internal/render"
)

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RenderMetadata{
		Kind:        "animate",
		Input:       "runs/a",
		Landscape:   "map.txt",
		Output:      "a.gif",
		Seed:        42,
		Jitter:      0.2,
		Generations: 1,
		DelayMs:     100,
		Frames:      2,
		Points:      4,
	}
	stats := []GenerationStats{
		{Generation: 0, Individuals: 2, MeanX: 1, MeanY: 2, StdX: 0.5, StdY: 0.25},
		{Generation: 1, Individuals: 2, MeanX: 1.5, MeanY: 2.5, MeanFitness: 0.75, MaxFitness: 1},
	}

	runID, err := st.Save(meta, stats)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Kind != "animate" {
		t.Errorf("expected kind 'animate', got '%s'", got.Kind)
	}
	if got.Seed != 42 {
		t.Errorf("expected seed 42, got %d", got.Seed)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp should be filled in")
	}

	loaded, err := st.LoadStats(runID)
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 generations, got %d", len(loaded))
	}
	if loaded[1].MeanFitness != 0.75 || loaded[0].StdX != 0.5 {
		t.Errorf("stats not preserved: %+v", loaded)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := st.Save(RenderMetadata{Kind: "static", Timestamp: base.Add(time.Hour)}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(RenderMetadata{Kind: "animate", Timestamp: base}, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Kind != "animate" || runs[1].Kind != "static" {
		t.Errorf("runs not in time order: %s, %s", runs[0].Kind, runs[1].Kind)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadStats("nope"); err == nil {
		t.Error("expected error for missing stats")
	}
}

func TestSummarize(t *testing.T) {
	f := render.Assemble(5, []jitter.Point{
		{X: 1, Y: 2, Z: 0.5},
		{X: 3, Y: 2, Z: 1.5},
	})
	st := Summarize(f)

	if st.Generation != 5 || st.Individuals != 2 {
		t.Errorf("unexpected header: %+v", st)
	}
	if st.MeanX != 2 || st.MeanY != 2 {
		t.Errorf("unexpected means: %+v", st)
	}
	if math.Abs(st.StdX-math.Sqrt2) > 1e-12 || st.StdY != 0 {
		t.Errorf("unexpected spread: %+v", st)
	}
	if st.MeanFitness != 1 || st.MaxFitness != 1.5 {
		t.Errorf("unexpected fitness: %+v", st)
	}

	empty := Summarize(render.Assemble(0, nil))
	if empty.Individuals != 0 || empty.MeanX != 0 {
		t.Errorf("empty frame should be zero: %+v", empty)
	}

	one := Summarize(render.Assemble(1, []jitter.Point{{X: 4, Y: 1}}))
	if one.MeanX != 4 || one.StdX != 0 {
		t.Errorf("single point: %+v", one)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.OnFrame(render.Assemble(0, []jitter.Point{{X: 1}}), 1)
	r.OnFrame(render.Assemble(1, []jitter.Point{{X: 2}}), 2)
	if len(r.Stats) != 2 || r.Stats[1].Generation != 1 {
		t.Errorf("unexpected recorded stats: %+v", r.Stats)
	}
}
