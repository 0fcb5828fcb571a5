package encode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/evoviz/internal/fault"
)

// File is an output file that only appears at its final path on Commit.
// Until then writes go to a hidden temporary file in the same directory.
type File struct {
	path string
	tmp  *os.File
	done bool
}

// Create opens a pending output for path.
func Create(path string) (*File, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, &fault.EncodingError{Target: path, Frame: -1, Wrapped: err}
	}
	return &File{path: path, tmp: tmp}, nil
}

func (f *File) Write(p []byte) (int, error) {
	if f.done {
		return 0, fmt.Errorf("write to finished output %s", f.path)
	}
	return f.tmp.Write(p)
}

// Commit flushes the data and moves it into place.
func (f *File) Commit() error {
	if f.done {
		return fmt.Errorf("output %s already finished", f.path)
	}
	f.done = true

	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return &fault.EncodingError{Target: f.path, Frame: -1, Wrapped: err}
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return &fault.EncodingError{Target: f.path, Frame: -1, Wrapped: err}
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name())
		return &fault.EncodingError{Target: f.path, Frame: -1, Wrapped: err}
	}
	return nil
}

// Abort removes the temporary file. It is a no-op after Commit.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	return f.discard()
}

func (f *File) discard() error {
	f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteFile runs write against a pending output for path and commits it if
// write succeeds. On failure nothing is left at path.
func WriteFile(path string, write func(w io.Writer) error) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Abort()
		return &fault.EncodingError{Target: path, Frame: -1, Wrapped: err}
	}
	return f.Commit()
}
