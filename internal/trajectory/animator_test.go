package trajectory_test

import (
	"bytes"
	"fmt"
	"image/gif"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/evoviz/internal/encode"
	"github.com/san-kum/evoviz/internal/fault"
	"github.com/san-kum/evoviz/internal/landscape"
	"github.com/san-kum/evoviz/internal/render"
	"github.com/san-kum/evoviz/internal/snapshot"
	"github.com/san-kum/evoviz/internal/trajectory"
	"gonum.org/v1/plot/vg"
)

// recordingFS remembers every file name opened through it.
type recordingFS struct {
	fs.FS
	opened []string
}

func (r *recordingFS) Open(name string) (fs.File, error) {
	r.opened = append(r.opened, name)
	return r.FS.Open(name)
}

func snapshotBytes(gen int, mode snapshot.Mode, inds ...snapshot.Individual) []byte {
	var buf bytes.Buffer
	s := &snapshot.Snapshot{Generation: gen, DeclaredSize: len(inds), MutationRate: 0.05, Individuals: inds}
	Expect(snapshot.Write(&buf, s, mode)).To(Succeed())
	return buf.Bytes()
}

func population(gen int) []snapshot.Individual {
	return []snapshot.Individual{
		{X: gen % 4, Y: 1},
		{X: 2, Y: gen % 3},
		{X: 0, Y: 0},
	}
}

func writeGenerations(dir string, n int) {
	for gen := 0; gen < n; gen++ {
		path := filepath.Join(dir, snapshot.FileName(gen))
		Expect(os.WriteFile(path, snapshotBytes(gen, snapshot.TwoAxis, population(gen)...), 0644)).To(Succeed())
	}
}

func tinyOptions(x, y int) render.Options {
	o := render.DefaultOptions(x, y)
	o.Width, o.Height = 3*vg.Inch, 2.5*vg.Inch
	o.DPI = 20
	return o
}

func testDrawer() render.Drawer {
	l := &landscape.Landscape{
		Width: 4, Height: 3, MaxFitness: 4, ContourStep: 1,
		Cells: [][]float64{{0, 1, 2, 3}, {1, 2, 3, 4}, {0, 0, 1, 1}},
	}
	d, err := trajectory.NewDrawer(snapshot.TwoAxis, staticProvider{l}, tinyOptions(4, 3), render.DefaultCamera())
	Expect(err).NotTo(HaveOccurred())
	return d
}

type staticProvider struct{ l *landscape.Landscape }

func (p staticProvider) Landscape() (*landscape.Landscape, error) { return p.l, nil }
func (p staticProvider) Describe() string                        { return "fixture" }

func baseJob(dir string, generations int) trajectory.Job {
	tm, err := encode.FromFPS(10)
	Expect(err).NotTo(HaveOccurred())
	return trajectory.Job{
		Dir:         dir,
		Output:      filepath.Join(dir, "out.gif"),
		XUpper:      4,
		YUpper:      3,
		Generations: generations,
		Timing:      tm,
		Mode:        snapshot.TwoAxis,
		Jitter:      0.2,
		Seed:        7,
	}
}

var _ = Describe("Animator", func() {
	var (
		dir    string
		drawer render.Drawer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		drawer = testDrawer()
	})

	Describe("Frames", func() {
		var rec *recordingFS

		BeforeEach(func() {
			files := fstest.MapFS{}
			for gen := 0; gen < 6; gen++ {
				files[snapshot.FileName(gen)] = &fstest.MapFile{Data: snapshotBytes(gen, snapshot.TwoAxis, population(gen)...)}
			}
			rec = &recordingFS{FS: files}
		})

		It("requests generations 0..N in ascending order", func() {
			a, err := trajectory.NewAnimatorFS(baseJob(dir, 3), rec, drawer)
			Expect(err).NotTo(HaveOccurred())

			var gens []int
			for f, err := range a.Frames() {
				Expect(err).NotTo(HaveOccurred())
				gens = append(gens, f.Generation)
				Expect(f.Label).To(Equal(fmt.Sprintf("Generation=%d", f.Generation)))
				Expect(f.Points).To(HaveLen(3))
			}

			Expect(gens).To(Equal([]int{0, 1, 2, 3}))
			Expect(rec.opened).To(Equal([]string{"gen_0.txt", "gen_1.txt", "gen_2.txt", "gen_3.txt"}))
		})

		It("stops opening files when the consumer stops", func() {
			a, err := trajectory.NewAnimatorFS(baseJob(dir, 5), rec, drawer)
			Expect(err).NotTo(HaveOccurred())

			for f := range a.Frames() {
				if f.Generation == 1 {
					break
				}
			}
			Expect(rec.opened).To(Equal([]string{"gen_0.txt", "gen_1.txt"}))
		})

		It("repeats the same frames for the same seed", func() {
			a, err := trajectory.NewAnimatorFS(baseJob(dir, 2), rec, drawer)
			Expect(err).NotTo(HaveOccurred())

			collect := func() []render.Frame {
				var out []render.Frame
				for f, err := range a.Frames() {
					Expect(err).NotTo(HaveOccurred())
					out = append(out, f)
				}
				return out
			}
			Expect(collect()).To(Equal(collect()))
		})

		It("keeps fitness as height in 3-axis mode", func() {
			files := fstest.MapFS{
				"gen_0.txt": {Data: snapshotBytes(0, snapshot.ThreeAxis, snapshot.Individual{X: 1, Y: 1, Fitness: 0.75, HasFitness: true})},
			}
			job := baseJob(dir, 0)
			job.Mode = snapshot.ThreeAxis
			a, err := trajectory.NewAnimatorFS(job, files, drawer)
			Expect(err).NotTo(HaveOccurred())

			for f, err := range a.Frames() {
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Points).To(HaveLen(1))
				Expect(f.Points[0].Z).To(Equal(0.75))
				Expect(f.Points[0].X).To(BeNumerically("~", 1, 1.5))
			}
		})

		It("yields a format error for a malformed snapshot", func() {
			files := fstest.MapFS{
				"gen_0.txt": {Data: []byte("N 1\nM 0\nG 0\n1 x\n")},
			}
			a, err := trajectory.NewAnimatorFS(baseJob(dir, 0), files, drawer)
			Expect(err).NotTo(HaveOccurred())

			var errs []error
			for _, err := range a.Frames() {
				errs = append(errs, err)
			}
			Expect(errs).To(HaveLen(1))
			Expect(errs[0]).To(MatchError(fault.ErrFormat))
		})
	})

	Describe("Run", func() {
		It("encodes every generation into one GIF", func() {
			writeGenerations(dir, 4)
			job := baseJob(dir, 3)

			a, err := trajectory.NewAnimator(job, drawer)
			Expect(err).NotTo(HaveOccurred())
			res, err := a.Run(encode.NewGIF(job.Output, job.Timing))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(Equal(4))
			Expect(res.Points).To(Equal(12))

			f, err := os.Open(job.Output)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			anim, err := gif.DecodeAll(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(anim.Image).To(HaveLen(4))
			Expect(anim.Delay).To(HaveEach(10))
		})

		It("aborts without output when a generation is missing", func() {
			writeGenerations(dir, 4)
			job := baseJob(dir, 4)

			a, err := trajectory.NewAnimator(job, drawer)
			Expect(err).NotTo(HaveOccurred())
			_, err = a.Run(encode.NewGIF(job.Output, job.Timing))

			Expect(err).To(MatchError(fault.ErrMissingFile))
			var mf *fault.MissingFileError
			Expect(err).To(BeAssignableToTypeOf(mf))
			Expect(err.(*fault.MissingFileError).Path).To(Equal("gen_4.txt"))
			Expect(job.Output).NotTo(BeAnExistingFile())

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(4))
		})

		It("logs progress every configured number of frames", func() {
			writeGenerations(dir, 5)
			job := baseJob(dir, 4)

			var out bytes.Buffer
			a, err := trajectory.NewAnimator(job, drawer)
			Expect(err).NotTo(HaveOccurred())
			a.AddObserver(trajectory.NewProgress(log.New(&out, "", 0), 2))

			_, err = a.Run(encode.NewGIF(job.Output, job.Timing))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("scatter frame 2 complete\nscatter frame 4 complete\n"))
		})
	})

	Describe("job validation", func() {
		DescribeTable("rejects bad jobs as argument errors",
			func(mutate func(*trajectory.Job)) {
				job := baseJob(dir, 3)
				mutate(&job)
				_, err := trajectory.NewAnimator(job, drawer)
				Expect(err).To(MatchError(fault.ErrArgument))
			},
			Entry("negative generations", func(j *trajectory.Job) { j.Generations = -1 }),
			Entry("x bound below 2", func(j *trajectory.Job) { j.XUpper = 1 }),
			Entry("y bound below 2", func(j *trajectory.Job) { j.YUpper = 0 }),
			Entry("negative jitter", func(j *trajectory.Job) { j.Jitter = -0.1 }),
		)

		It("requires a .gif output for animations", func() {
			writeGenerations(dir, 1)
			job := baseJob(dir, 0)
			job.Output = filepath.Join(dir, "out.mp4")

			_, err := trajectory.Animate(job, drawer, trajectory.NewProgress(nil, 0))
			Expect(err).To(MatchError(fault.ErrArgument))
			Expect(job.Output).NotTo(BeAnExistingFile())
		})
	})
})

var _ = Describe("RenderStatic", func() {
	var (
		dir    string
		drawer render.Drawer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		drawer = testDrawer()
		writeGenerations(dir, 3)
	})

	It("writes one image named by the caller", func() {
		out := filepath.Join(dir, "final.png")
		f, err := trajectory.RenderStatic(trajectory.Static{
			Snapshot: filepath.Join(dir, "gen_2.txt"),
			Output:   out,
			Mode:     snapshot.TwoAxis,
			Jitter:   0.2,
			Seed:     1,
		}, drawer)

		Expect(err).NotTo(HaveOccurred())
		Expect(f.Generation).To(Equal(2))
		Expect(f.Points).To(HaveLen(3))
		Expect(out).To(BeAnExistingFile())
	})

	It("rejects unknown image formats before reading input", func() {
		_, err := trajectory.RenderStatic(trajectory.Static{
			Snapshot: filepath.Join(dir, "missing.txt"),
			Output:   filepath.Join(dir, "final.bmp"),
		}, drawer)
		Expect(err).To(MatchError(fault.ErrArgument))
	})

	It("fails with a missing file and leaves no image", func() {
		out := filepath.Join(dir, "final.png")
		_, err := trajectory.RenderStatic(trajectory.Static{
			Snapshot: filepath.Join(dir, "gen_9.txt"),
			Output:   out,
		}, drawer)
		Expect(err).To(MatchError(fault.ErrMissingFile))
		Expect(out).NotTo(BeAnExistingFile())
	})
})

var _ = Describe("NewDrawer", func() {
	It("builds a perspective view for 3-axis data", func() {
		d, err := trajectory.NewDrawer(snapshot.ThreeAxis, landscape.AnalyticProvider{XUpper: 5, YUpper: 5}, tinyOptions(5, 5), render.DefaultCamera())
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&render.Perspective{}))
	})

	It("propagates landscape load failures", func() {
		_, err := trajectory.NewDrawer(snapshot.TwoAxis, landscape.FileProvider{Path: filepath.Join(GinkgoT().TempDir(), "none.txt")}, tinyOptions(5, 5), render.DefaultCamera())
		Expect(err).To(MatchError(fault.ErrMissingFile))
	})
})
