// Package snapshot reads and writes per-generation population files.
//
// A snapshot file has three header lines whose second token is, in order,
// the declared population size, the mutation rate and the generation index.
// Every following line is one individual: "x y" or "x y fitness".
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/evoviz/internal/fault"
)

// Mode selects the data line shape.
type Mode int

const (
	TwoAxis   Mode = iota // x y
	ThreeAxis             // x y fitness
)

func (m Mode) String() string {
	switch m {
	case TwoAxis:
		return "2-axis"
	case ThreeAxis:
		return "3-axis"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) columns() int {
	if m == ThreeAxis {
		return 3
	}
	return 2
}

type Individual struct {
	X, Y       int
	Fitness    float64
	HasFitness bool
}

type Snapshot struct {
	Generation   int
	DeclaredSize int
	MutationRate float64
	Individuals  []Individual
}

// FileName returns the conventional file name for generation n.
func FileName(n int) string {
	return fmt.Sprintf("gen_%d.txt", n)
}

// Load reads one snapshot file from disk.
func Load(path string, mode Mode) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return Parse(f, path, mode)
}

// LoadFS reads the named snapshot from fsys.
func LoadFS(fsys fs.FS, name string, mode Mode) (*Snapshot, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, openError(name, err)
	}
	defer f.Close()
	return Parse(f, name, mode)
}

func openError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &fault.MissingFileError{Path: name, Wrapped: err}
	}
	return fmt.Errorf("open snapshot: %w", err)
}

// Parse reads a snapshot from r. Reading stops at EOF whether or not the
// number of individuals matches the declared size.
func Parse(r io.Reader, name string, mode Mode) (*Snapshot, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	s := &Snapshot{}
	lineNo := 0

	headers := []func(string) error{
		func(tok string) (err error) { s.DeclaredSize, err = strconv.Atoi(tok); return },
		func(tok string) (err error) { s.MutationRate, err = strconv.ParseFloat(tok, 64); return },
		func(tok string) (err error) { s.Generation, err = strconv.Atoi(tok); return },
	}
	labels := []string{"population size", "mutation rate", "generation"}

	for i, set := range headers {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, readError(name, lineNo+1, err)
			}
			return nil, fault.Formatf(name, 0, "truncated header: missing %s line", labels[i])
		}
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			return nil, fault.Formatf(name, lineNo, "%s header needs a label and a value", labels[i])
		}
		if err := set(fields[1]); err != nil {
			return nil, &fault.FormatError{Path: name, Line: lineNo, Msg: fmt.Sprintf("bad %s %q", labels[i], fields[1]), Wrapped: err}
		}
	}
	if s.Generation < 0 {
		return nil, fault.Formatf(name, 3, "generation must be non-negative, got %d", s.Generation)
	}

	if s.DeclaredSize > 0 {
		s.Individuals = make([]Individual, 0, s.DeclaredSize)
	}
	want := mode.columns()
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != want {
			return nil, fault.Formatf(name, lineNo, "expected %d values for %s data, got %d", want, mode, len(fields))
		}
		ind, err := parseIndividual(fields)
		if err != nil {
			return nil, &fault.FormatError{Path: name, Line: lineNo, Msg: err.Error(), Wrapped: err}
		}
		s.Individuals = append(s.Individuals, ind)
	}
	if err := sc.Err(); err != nil {
		return nil, readError(name, lineNo+1, err)
	}

	return s, nil
}

// maxLine bounds a single snapshot line.
const maxLine = 16 * 1024 * 1024

// readError reports an over-long line as a format error at line.
func readError(name string, line int, err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return &fault.FormatError{Path: name, Line: line, Msg: fmt.Sprintf("line longer than %d bytes", maxLine), Wrapped: err}
	}
	return fmt.Errorf("read %s: %w", name, err)
}

func parseIndividual(fields []string) (Individual, error) {
	var ind Individual
	var err error
	if ind.X, err = strconv.Atoi(fields[0]); err != nil {
		return ind, fmt.Errorf("bad x gene %q", fields[0])
	}
	if ind.Y, err = strconv.Atoi(fields[1]); err != nil {
		return ind, fmt.Errorf("bad y gene %q", fields[1])
	}
	if len(fields) == 3 {
		ind.Fitness, err = strconv.ParseFloat(fields[2], 64)
		if err != nil || math.IsInf(ind.Fitness, 0) || math.IsNaN(ind.Fitness) {
			return ind, fmt.Errorf("bad fitness %q", fields[2])
		}
		ind.HasFitness = true
	}
	return ind, nil
}

// Write emits s in the upstream format (N, M and G header labels).
func Write(w io.Writer, s *Snapshot, mode Mode) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "N %d\n", s.DeclaredSize)
	fmt.Fprintf(bw, "M %s\n", strconv.FormatFloat(s.MutationRate, 'g', -1, 64))
	fmt.Fprintf(bw, "G %d\n", s.Generation)
	for _, ind := range s.Individuals {
		if mode == ThreeAxis {
			fmt.Fprintf(bw, "%d %d %s\n", ind.X, ind.Y, strconv.FormatFloat(ind.Fitness, 'g', -1, 64))
		} else {
			fmt.Fprintf(bw, "%d %d\n", ind.X, ind.Y)
		}
	}
	return bw.Flush()
}
