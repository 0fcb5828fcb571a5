package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/evoviz/internal/config"
	"github.com/san-kum/evoviz/internal/console"
	"github.com/san-kum/evoviz/internal/encode"
	"github.com/san-kum/evoviz/internal/fault"
	"github.com/san-kum/evoviz/internal/landscape"
	"github.com/san-kum/evoviz/internal/metrics"
	"github.com/san-kum/evoviz/internal/snapshot"
	"github.com/san-kum/evoviz/internal/storage"
	"github.com/san-kum/evoviz/internal/trajectory"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64
	jitterSD   float64
	quiet      bool
	record     bool
	// animate3d
	landscapeFile string
	// static
	preview bool
	// genmap
	fitnessFunc string
	maxFitness  float64
	contourStep float64
	// trend
	field string
)

// main registers the commands and exits with the status matching the error
// kind: 2 for argument errors, 1 for everything else.
func main() {
	rootCmd := &cobra.Command{
		Use:           "evoviz",
		Short:         "render fitness landscapes and population trajectories",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fault.Argumentf("%s: %v\nusage: %s", cmd.Name(), err, cmd.UseLine())
	})

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "job config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "figure preset (small, default, poster)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "jitter seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().Float64Var(&jitterSD, "jitter", 0.2, "jitter standard deviation")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&record, "record", false, "keep a record of the job in the data directory")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".evoviz", "data directory for job records")

	animateCmd := &cobra.Command{
		Use:   "animate <dir> <out.gif> <xUpper> <yUpper> <generations> <fps> <landscape>",
		Short: "animate 2-axis snapshots over a landscape file",
		Args:  exactArgs(7),
		RunE:  runAnimate,
	}

	animate3dCmd := &cobra.Command{
		Use:   "animate3d <dir> <out.gif> <xUpper> <yUpper> <generations> <delayMs>",
		Short: "animate 3-axis snapshots over a perspective surface",
		Args:  exactArgs(6),
		RunE:  runAnimate3D,
	}
	animate3dCmd.Flags().StringVar(&landscapeFile, "landscape", "", "landscape file (default: analytic two-bump surface)")

	staticCmd := &cobra.Command{
		Use:   "static <snapshot> <out.png> <xUpper> <yUpper> <landscape>",
		Short: "render one 2-axis snapshot to an image",
		Args:  exactArgs(5),
		RunE:  runStatic,
	}
	staticCmd.Flags().BoolVar(&preview, "preview", false, "also print the population to the terminal")

	genmapCmd := &cobra.Command{
		Use:   "genmap <out> [<xsize> <ysize>]",
		Short: "write a landscape file from a named fitness function",
		Args:  oneOfArgs(1, 3),
		RunE:  runGenmap,
	}
	genmapCmd.Flags().StringVar(&fitnessFunc, "func", "origin", "fitness function")
	genmapCmd.Flags().Float64Var(&maxFitness, "max", landscape.DefaultMaxFitness, "max fitness written to the header")
	genmapCmd.Flags().Float64Var(&contourStep, "step", landscape.DefaultContourStep, "contour step written to the header")

	metricCmd := &cobra.Command{
		Use:   "metric <kind> <data>... <out.png>",
		Short: "plot benchmark timing files (" + strings.Join(metrics.ListKinds(), ", ") + ")",
		Args:  minArgs(3),
		RunE:  runMetric,
	}
	metricCmd.Flags().BoolVar(&preview, "preview", false, "also print the chart to the terminal")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list figure presets",
		Args:  exactArgs(0),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded jobs",
		Args:  exactArgs(0),
		RunE:  listRuns,
	}

	trendCmd := &cobra.Command{
		Use:   "trend <run_id>",
		Short: "chart per-generation statistics of a recorded animation",
		Args:  exactArgs(1),
		RunE:  plotTrend,
	}
	trendCmd.Flags().StringVar(&field, "field", "mean_fitness", "statistic to chart (mean_x, mean_y, std_x, std_y, mean_fitness, max_fitness)")

	rootCmd.AddCommand(animateCmd, animate3dCmd, staticCmd, genmapCmd, metricCmd, presetsCmd, runsCmd, trendCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.Diagnostic(err))
		os.Exit(fault.ExitCode(err))
	}
}

// loadConfig resolves defaults, preset and file, then applies flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, fault.Argumentf("config: %v", err)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("jitter") {
		cfg.Jitter = jitterSD
	}
	if cfg.Jitter < 0 {
		return nil, fault.Argumentf("jitter must not be negative, got %g", cfg.Jitter)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, nil
}

func runAnimate(cmd *cobra.Command, args []string) error {
	xUpper, yUpper, err := parseBounds(args[2], args[3])
	if err != nil {
		return err
	}
	generations, err := parseInt("generations", args[4])
	if err != nil {
		return err
	}
	fps, err := parseFloat("fps", args[5])
	if err != nil {
		return err
	}
	timing, err := encode.FromFPS(fps)
	if err != nil {
		return err
	}

	job := trajectory.Job{
		Dir:         args[0],
		Output:      args[1],
		XUpper:      xUpper,
		YUpper:      yUpper,
		Generations: generations,
		Timing:      timing,
		Mode:        snapshot.TwoAxis,
	}
	return animate(cmd, "animate", job, landscape.FileProvider{Path: args[6]})
}

func runAnimate3D(cmd *cobra.Command, args []string) error {
	xUpper, yUpper, err := parseBounds(args[2], args[3])
	if err != nil {
		return err
	}
	generations, err := parseInt("generations", args[4])
	if err != nil {
		return err
	}
	delay, err := parseInt("delayMs", args[5])
	if err != nil {
		return err
	}
	timing, err := encode.FromDelayMs(delay)
	if err != nil {
		return err
	}

	var provider landscape.Provider = landscape.AnalyticProvider{XUpper: xUpper, YUpper: yUpper}
	if landscapeFile != "" {
		provider = landscape.FileProvider{Path: landscapeFile}
	}

	job := trajectory.Job{
		Dir:         args[0],
		Output:      args[1],
		XUpper:      xUpper,
		YUpper:      yUpper,
		Generations: generations,
		Timing:      timing,
		Mode:        snapshot.ThreeAxis,
	}
	return animate(cmd, "animate3d", job, provider)
}

func animate(cmd *cobra.Command, kind string, job trajectory.Job, provider landscape.Provider) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	job.Jitter, job.Seed = cfg.Jitter, cfg.Seed

	drawer, err := trajectory.NewDrawer(job.Mode, provider, cfg.RenderOptions(job.XUpper, job.YUpper), cfg.GetCamera())
	if err != nil {
		return err
	}

	logger := console.NewLogger(os.Stderr, quiet)
	rec := &storage.Recorder{}
	start := time.Now()
	res, err := trajectory.Animate(job, drawer, trajectory.NewProgress(logger, cfg.ProgressEvery), rec)
	if err != nil {
		return err
	}

	fmt.Println(console.Done("wrote " + job.Output))
	fmt.Println(console.Field("frames", res.Frames))
	fmt.Println(console.Field("landscape", provider.Describe()))
	fmt.Println(console.Field("timing", job.Timing))
	fmt.Println(console.Field("seed", job.Seed))
	fmt.Println(console.Field("elapsed", time.Since(start).Round(time.Millisecond)))

	if !record {
		return nil
	}
	return saveRecord(storage.RenderMetadata{
		Kind:        kind,
		Input:       job.Dir,
		Landscape:   provider.Describe(),
		Output:      job.Output,
		Seed:        job.Seed,
		Jitter:      job.Jitter,
		Generations: job.Generations,
		DelayMs:     job.Timing.CentiSeconds() * 10,
		Frames:      res.Frames,
		Points:      res.Points,
	}, rec.Stats)
}

func runStatic(cmd *cobra.Command, args []string) error {
	xUpper, yUpper, err := parseBounds(args[2], args[3])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	provider := landscape.FileProvider{Path: args[4]}
	drawer, err := trajectory.NewDrawer(snapshot.TwoAxis, provider, cfg.RenderOptions(xUpper, yUpper), cfg.GetCamera())
	if err != nil {
		return err
	}

	f, err := trajectory.RenderStatic(trajectory.Static{
		Snapshot: args[0],
		Output:   args[1],
		Mode:     snapshot.TwoAxis,
		Jitter:   cfg.Jitter,
		Seed:     cfg.Seed,
	}, drawer)
	if err != nil {
		return err
	}

	fmt.Println(console.Done("wrote " + args[1]))
	fmt.Println(console.Field("generation", f.Generation))
	fmt.Println(console.Field("individuals", len(f.Points)))
	if preview {
		fmt.Println(console.Separator(44))
		fmt.Println(console.Title.Render(f.Label))
		fmt.Print(console.Scatter(f.Points, xUpper, yUpper, 40, 15))
	}

	if !record {
		return nil
	}
	return saveRecord(storage.RenderMetadata{
		Kind:      "static",
		Input:     args[0],
		Landscape: provider.Describe(),
		Output:    args[1],
		Seed:      cfg.Seed,
		Jitter:    cfg.Jitter,
		Frames:    1,
		Points:    len(f.Points),
	}, []storage.GenerationStats{storage.Summarize(f)})
}

func runGenmap(cmd *cobra.Command, args []string) error {
	gc := landscape.DefaultGenerateConfig()
	if len(args) == 3 {
		var err error
		if gc.Width, err = parseInt("xsize", args[1]); err != nil {
			return err
		}
		if gc.Height, err = parseInt("ysize", args[2]); err != nil {
			return err
		}
	}
	gc.MaxFitness, gc.ContourStep = maxFitness, contourStep

	fn, err := landscape.NewRegistry().Get(fitnessFunc)
	if err != nil {
		return fault.Argumentf("%v", err)
	}
	l, err := landscape.Generate(gc, fn)
	if err != nil {
		return fault.Argumentf("%v", err)
	}

	err = encode.WriteFile(args[0], func(w io.Writer) error {
		return landscape.Write(w, l)
	})
	if err != nil {
		return err
	}
	fmt.Println(console.Done(fmt.Sprintf("wrote %s (%dx%d, %s)", args[0], l.Width, l.Height, fitnessFunc)))
	return nil
}

func runMetric(cmd *cobra.Command, args []string) error {
	kind, err := metrics.GetKind(args[0])
	if err != nil {
		return err
	}
	files, out := args[1:len(args)-1], args[len(args)-1]

	series := make([]*metrics.Series, 0, len(files))
	for _, path := range files {
		s, err := metrics.Load(path, kind)
		if err != nil {
			return err
		}
		series = append(series, s)
	}

	p, err := metrics.Plot(kind, series...)
	if err != nil {
		return err
	}
	if err := metrics.Save(p, out, metrics.FigureWidth, metrics.FigureHeight); err != nil {
		return err
	}
	fmt.Println(console.Done("wrote " + out))

	if preview {
		ys := make([][]float64, len(series))
		for i, s := range series {
			ys[i] = s.Y
		}
		fmt.Println(console.Separator(80))
		fmt.Println(console.Chart(kind.Title, 80, 12, ys...))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tDPI\tJITTER\tPOINT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gx%g in\t%d\t%.2f\t%gpt\n",
			name,
			p.Figure.Width, p.Figure.Height,
			p.Figure.DPI,
			p.Jitter,
			p.Figure.PointRadius,
		)
	}
	return w.Flush()
}

func saveRecord(meta storage.RenderMetadata, stats []storage.GenerationStats) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(meta, stats)
	if err != nil {
		return err
	}
	fmt.Println(console.Field("record", id))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tFRAMES\tSEED\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Seed,
			filepath.Base(run.Output),
		)
	}

	return w.Flush()
}

func plotTrend(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	pick := map[string]func(storage.GenerationStats) float64{
		"mean_x":       func(s storage.GenerationStats) float64 { return s.MeanX },
		"mean_y":       func(s storage.GenerationStats) float64 { return s.MeanY },
		"std_x":        func(s storage.GenerationStats) float64 { return s.StdX },
		"std_y":        func(s storage.GenerationStats) float64 { return s.StdY },
		"mean_fitness": func(s storage.GenerationStats) float64 { return s.MeanFitness },
		"max_fitness":  func(s storage.GenerationStats) float64 { return s.MaxFitness },
	}
	get, ok := pick[field]
	if !ok {
		return fault.Argumentf("unknown field %q", field)
	}

	data := make([]float64, len(stats))
	for i, s := range stats {
		data[i] = get(s)
	}

	fmt.Printf("%s  %s\n\n", console.Title.Render(meta.ID), console.Subtle.Render(meta.Output))
	fmt.Println(console.Chart(field+" by generation", 80, 10, data))
	return nil
}
