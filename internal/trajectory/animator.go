package trajectory

import (
	"io"
	"io/fs"
	"iter"
	"log"
	"os"

	"github.com/san-kum/evoviz/internal/encode"
	"github.com/san-kum/evoviz/internal/fault"
	"github.com/san-kum/evoviz/internal/jitter"
	"github.com/san-kum/evoviz/internal/render"
	"github.com/san-kum/evoviz/internal/snapshot"
)

type Animator struct {
	job       Job
	fsys      fs.FS
	drawer    render.Drawer
	observers []Observer
}

// NewAnimator reads snapshots from job.Dir.
func NewAnimator(job Job, drawer render.Drawer) (*Animator, error) {
	return NewAnimatorFS(job, os.DirFS(job.Dir), drawer)
}

// NewAnimatorFS reads snapshots from fsys instead of job.Dir.
func NewAnimatorFS(job Job, fsys fs.FS, drawer render.Drawer) (*Animator, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}
	return &Animator{
		job:       job,
		fsys:      fsys,
		drawer:    drawer,
		observers: make([]Observer, 0),
	}, nil
}

func (a *Animator) AddObserver(o Observer) { a.observers = append(a.observers, o) }

// Frames yields one frame per generation in ascending order. The first
// error is yielded with a zero Frame and ends the sequence. Every call
// starts a fresh jitter stream from the job seed, so a re-run over the same
// files produces the same frames.
func (a *Animator) Frames() iter.Seq2[render.Frame, error] {
	return func(yield func(render.Frame, error) bool) {
		jit := jitter.New(a.job.Jitter, a.job.Seed)
		for gen := 0; gen <= a.job.Generations; gen++ {
			snap, err := snapshot.LoadFS(a.fsys, snapshot.FileName(gen), a.job.Mode)
			if err != nil {
				yield(render.Frame{}, err)
				return
			}
			if !yield(render.Assemble(gen, jit.Apply(snap)), nil) {
				return
			}
		}
	}
}

// Run draws every frame into sink and commits it. Any failure aborts the
// sink, so no artifact is produced.
func (a *Animator) Run(sink encode.Sink) (*Result, error) {
	res := &Result{}
	for f, err := range a.Frames() {
		if err != nil {
			sink.Abort()
			return nil, err
		}

		img, err := render.Image(a.drawer, f)
		if err != nil {
			sink.Abort()
			return nil, &fault.EncodingError{Target: a.job.Output, Frame: f.Generation, Wrapped: err}
		}
		if err := sink.Append(img); err != nil {
			sink.Abort()
			return nil, err
		}

		res.Frames++
		res.Points += len(f.Points)
		for _, o := range a.observers {
			o.OnFrame(f, res.Frames)
		}
	}

	if err := sink.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// Progress logs a liveness notice every Every frames.
type Progress struct {
	Logger *log.Logger
	Every  int
}

func NewProgress(logger *log.Logger, every int) *Progress {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if every <= 0 {
		every = DefaultProgressEvery
	}
	return &Progress{Logger: logger, Every: every}
}

func (p *Progress) OnFrame(_ render.Frame, done int) {
	if done%p.Every == 0 {
		p.Logger.Printf("scatter frame %d complete", done)
	}
}
