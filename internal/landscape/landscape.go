package landscape

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

// Landscape is a dense fitness grid indexed as Cells[y][x].
type Landscape struct {
	Width       int
	Height      int
	MaxFitness  float64
	ContourStep float64
	Cells       [][]float64
}

// At returns the fitness at integer gene coordinate (x, y).
func (l *Landscape) At(x, y int) float64 {
	return l.Cells[y][x]
}

// Load reads a landscape file from disk.
func Load(path string) (*Landscape, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fault.MissingFileError{Path: path, Wrapped: err}
		}
		return nil, fmt.Errorf("open landscape: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads the landscape format from r. name is only used in errors.
//
// The header is "width height maxFitness contourStep", followed by height
// rows of width numbers. Blank lines are skipped; anything after the last
// row is ignored.
func Parse(r io.Reader, name string) (*Landscape, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineNo := 0
	next := func() ([]string, bool) {
		for sc.Scan() {
			lineNo++
			fields := strings.Fields(sc.Text())
			if len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, readError(name, lineNo+1, err)
		}
		return nil, fault.Formatf(name, 0, "empty landscape file")
	}
	l, err := parseHeader(name, lineNo, header)
	if err != nil {
		return nil, err
	}

	l.Cells = make([][]float64, l.Height)
	for y := 0; y < l.Height; y++ {
		fields, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, readError(name, lineNo+1, err)
			}
			return nil, fault.Formatf(name, 0, "expected %d rows, got %d", l.Height, y)
		}
		if len(fields) != l.Width {
			return nil, fault.Formatf(name, lineNo, "expected %d values, got %d", l.Width, len(fields))
		}
		row := make([]float64, l.Width)
		for x, tok := range fields {
			v, err := parseFinite(tok)
			if err != nil {
				return nil, &fault.FormatError{Path: name, Line: lineNo, Msg: fmt.Sprintf("non-numeric value %q", tok), Wrapped: err}
			}
			row[x] = v
		}
		l.Cells[y] = row
	}

	return l, nil
}

func parseHeader(name string, lineNo int, fields []string) (*Landscape, error) {
	if len(fields) != 4 {
		return nil, fault.Formatf(name, lineNo, "header needs 4 values (width height maxFitness contourStep), got %d", len(fields))
	}

	w, err := strconv.Atoi(fields[0])
	if err != nil || w <= 0 {
		return nil, fault.Formatf(name, lineNo, "width must be a positive integer, got %q", fields[0])
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil || h <= 0 {
		return nil, fault.Formatf(name, lineNo, "height must be a positive integer, got %q", fields[1])
	}
	maxFit, err := parseFinite(fields[2])
	if err != nil || maxFit < 0 {
		return nil, fault.Formatf(name, lineNo, "maxFitness must be a non-negative number, got %q", fields[2])
	}
	step, err := parseFinite(fields[3])
	if err != nil || step <= 0 {
		return nil, fault.Formatf(name, lineNo, "contourStep must be a positive number, got %q", fields[3])
	}

	return &Landscape{Width: w, Height: h, MaxFitness: maxFit, ContourStep: step}, nil
}

// maxLine bounds a single landscape row.
const maxLine = 16 * 1024 * 1024

// readError reports an over-long line as a format error at line.
func readError(name string, line int, err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return &fault.FormatError{Path: name, Line: line, Msg: fmt.Sprintf("line longer than %d bytes", maxLine), Wrapped: err}
	}
	return fmt.Errorf("read %s: %w", name, err)
}

// parseFinite is strconv.ParseFloat without Inf and NaN.
func parseFinite(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%q is not a finite number", tok)
	}
	return v, nil
}

// Write serialises l in the format Parse reads.
func Write(w io.Writer, l *Landscape) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %s %s\n", l.Width, l.Height, formatFloat(l.MaxFitness), formatFloat(l.ContourStep))
	for _, row := range l.Cells {
		for x, v := range row {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Save writes l to path.
func Save(path string, l *Landscape) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
