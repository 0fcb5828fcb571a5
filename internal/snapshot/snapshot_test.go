package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/san-kum/evoviz/internal/fault"
)

const header = "N 5\nM 0.05\nG 7\n"

func TestParseMatchingCount(t *testing.T) {
	in := header + "0 0\n1 2\n3 4\n4 4\n2 1\n"
	s, err := Parse(strings.NewReader(in), "gen_7.txt", TwoAxis)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if s.Generation != 7 {
		t.Errorf("expected generation 7, got %d", s.Generation)
	}
	if s.DeclaredSize != 5 {
		t.Errorf("expected declared size 5, got %d", s.DeclaredSize)
	}
	if s.MutationRate != 0.05 {
		t.Errorf("expected mutation rate 0.05, got %g", s.MutationRate)
	}

	want := []Individual{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 4}, {X: 4, Y: 4}, {X: 2, Y: 1}}
	if !reflect.DeepEqual(s.Individuals, want) {
		t.Errorf("individuals out of file order:\n got  %v\n want %v", s.Individuals, want)
	}
}

func TestParseShortFileIsLenient(t *testing.T) {
	in := header + "0 0\n1 2\n3 4\n"
	s, err := Parse(strings.NewReader(in), "gen_7.txt", TwoAxis)
	if err != nil {
		t.Fatalf("short file must not error: %v", err)
	}
	if len(s.Individuals) != 3 {
		t.Errorf("expected 3 individuals, got %d", len(s.Individuals))
	}
	if s.DeclaredSize != 5 {
		t.Errorf("declared size should be kept as read, got %d", s.DeclaredSize)
	}
}

func TestParseLongFileIsLenient(t *testing.T) {
	in := "N 1\nM 0\nG 0\n0 0\n1 1\n\n"
	s, err := Parse(strings.NewReader(in), "gen_0.txt", TwoAxis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Individuals) != 2 {
		t.Errorf("expected 2 individuals, got %d", len(s.Individuals))
	}
}

func TestParseThreeAxis(t *testing.T) {
	in := "N 2\nM 0.1\nG 3\n5 5 1.0016\n-3 2 0.25\n"
	s, err := Parse(strings.NewReader(in), "gen_3.txt", ThreeAxis)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []Individual{
		{X: 5, Y: 5, Fitness: 1.0016, HasFitness: true},
		{X: -3, Y: 2, Fitness: 0.25, HasFitness: true},
	}
	if !reflect.DeepEqual(s.Individuals, want) {
		t.Errorf("got %v, want %v", s.Individuals, want)
	}
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mode Mode
		line int
	}{
		{"empty", "", TwoAxis, 0},
		{"missing generation line", "N 5\nM 0.1\n", TwoAxis, 0},
		{"label only", "N\nM 0.1\nG 1\n", TwoAxis, 1},
		{"bad size", "N five\nM 0.1\nG 1\n", TwoAxis, 1},
		{"bad rate", "N 5\nM fast\nG 1\n", TwoAxis, 2},
		{"bad generation", "N 5\nM 0.1\nG 1.5\n", TwoAxis, 3},
		{"negative generation", "N 5\nM 0.1\nG -1\n", TwoAxis, 3},
		{"three values in 2-axis", header + "0 0\n1 2 3\n", TwoAxis, 5},
		{"two values in 3-axis", header + "0 0 1\n1 2\n", ThreeAxis, 5},
		{"non-integer gene", header + "0.5 1\n", TwoAxis, 4},
		{"non-numeric fitness", header + "0 1 high\n", ThreeAxis, 4},
		{"NaN fitness", header + "0 1 NaN\n", ThreeAxis, 4},
		{"infinite fitness", header + "0 0 1\n0 1 +Inf\n", ThreeAxis, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), "gen_7.txt", tt.mode)
			var fe *fault.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *fault.FormatError, got %v", err)
			}
			if fe.Line != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, fe.Line, err)
			}
		})
	}
}

func TestParseOverlongLine(t *testing.T) {
	long := strings.Repeat("1", maxLine+1)
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"data line", header + "0 0\n" + long + " 2\n", 5},
		{"header line", "N " + long + "\nM 0.1\nG 1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), "gen_7.txt", TwoAxis)
			if !errors.Is(err, fault.ErrFormat) {
				t.Fatalf("expected format error, got %v", err)
			}
			var fe *fault.FormatError
			if !errors.As(err, &fe) || fe.Line != tt.line {
				t.Errorf("expected line %d, got %v", tt.line, err)
			}
		})
	}
}

func TestLoadFSMissing(t *testing.T) {
	fsys := fstest.MapFS{"gen_0.txt": {Data: []byte(header)}}

	if _, err := LoadFS(fsys, FileName(0), TwoAxis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := LoadFS(fsys, FileName(1), TwoAxis)
	if !errors.Is(err, fault.ErrMissingFile) {
		t.Fatalf("expected missing file, got %v", err)
	}
}

func TestWriteLoad(t *testing.T) {
	orig := &Snapshot{
		Generation:   12,
		DeclaredSize: 2,
		MutationRate: 0.01,
		Individuals: []Individual{
			{X: 1, Y: 2, Fitness: 0.5, HasFitness: true},
			{X: 3, Y: 4, Fitness: 0.75, HasFitness: true},
		},
	}

	path := filepath.Join(t.TempDir(), FileName(12))
	var buf bytes.Buffer
	if err := Write(&buf, orig, ThreeAxis); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path, ThreeAxis)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Errorf("got %+v, want %+v", got, orig)
	}
}

func TestFileNameAndMode(t *testing.T) {
	if FileName(42) != "gen_42.txt" {
		t.Errorf("unexpected file name %s", FileName(42))
	}
	if TwoAxis.String() != "2-axis" || ThreeAxis.String() != "3-axis" {
		t.Error("unexpected mode names")
	}
}
