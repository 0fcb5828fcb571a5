// Package metrics plots the two-column benchmark files written by the
// search tool's timing harness: one "<parameter> <seconds>" pair per line.
package metrics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/evoviz/internal/fault"
)

// Kind names a benchmark and labels its chart.
type Kind struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	IntX   bool // parameter column must be an integer
}

var Kinds = map[string]Kind{
	"population":  {Name: "population", Title: "Population vs Time", XLabel: "Population", YLabel: "Time", IntX: true},
	"generations": {Name: "generations", Title: "Generations vs Time", XLabel: "Generations", YLabel: "Time", IntX: true},
	"tournament":  {Name: "tournament", Title: "Tournament Size vs Time", XLabel: "Tournament Size", YLabel: "Time", IntX: true},
	"mutation":    {Name: "mutation", Title: "Mutation Rate vs Time", XLabel: "Mutation Rate", YLabel: "Time"},
	"mapsize":     {Name: "mapsize", Title: "Fitness Map Size vs Time", XLabel: "Fitness Map Size (# x #)", YLabel: "Time", IntX: true},
}

func GetKind(name string) (Kind, error) {
	k, ok := Kinds[name]
	if !ok {
		return Kind{}, fault.Argumentf("unknown metric kind %q (available: %s)", name, strings.Join(ListKinds(), ", "))
	}
	return k, nil
}

func ListKinds() []string {
	names := make([]string, 0, len(Kinds))
	for name := range Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series is one benchmark file. It implements plotter.XYer.
type Series struct {
	Name string
	X, Y []float64
}

func (s *Series) Len() int                { return len(s.X) }
func (s *Series) XY(i int) (x, y float64) { return s.X[i], s.Y[i] }

// Load reads a benchmark file.
func Load(path string, k Kind) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fault.MissingFileError{Path: path, Wrapped: err}
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f, path, k)
}

// Parse reads "<x> <y>" lines. Tokens after the second are ignored, as are
// blank lines.
func Parse(r io.Reader, name string, k Kind) (*Series, error) {
	s := &Series{Name: name}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fault.Formatf(name, lineNo, "expected two values, got %d", len(fields))
		}

		var x float64
		if k.IntX {
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, &fault.FormatError{Path: name, Line: lineNo, Msg: fmt.Sprintf("bad %s %q", strings.ToLower(k.XLabel), fields[0]), Wrapped: err}
			}
			x = float64(n)
		} else {
			v, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, &fault.FormatError{Path: name, Line: lineNo, Msg: fmt.Sprintf("bad %s %q", strings.ToLower(k.XLabel), fields[0]), Wrapped: err}
			}
			x = v
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &fault.FormatError{Path: name, Line: lineNo, Msg: fmt.Sprintf("bad time %q", fields[1]), Wrapped: err}
		}

		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(s.X) == 0 {
		return nil, fault.Formatf(name, 0, "no data points")
	}
	return s, nil
}
