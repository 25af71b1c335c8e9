package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/adc"
	"github.com/san-kum/heatsim/internal/analysis"
	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/optim"
	"github.com/san-kum/heatsim/internal/sim"
	"github.com/san-kum/heatsim/internal/storage"
	"github.com/san-kum/heatsim/internal/tui"
)

var (
	dataDir    string
	interval   float64
	duration   float64
	seed       int64
	controller string
	pGain      int
	iGain      int
	dGain      int
	windup     int
	divisor    int
	target     int
	band       int
	noise      int
	configFile string
	preset     string
	// Sensor span overrides, taken from the config file when set.
	sensorMin float64
	sensorMax float64
	// Plant parameter overrides from the config file.
	plantParams config.PlantConfig
	// Tune command grid bounds.
	tuneMetric string
	pFrom      int
	pTo        int
	iFrom      int
	iTo        int
	dFrom      int
	dTo        int
	dStep      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "heatsim",
		Short: "heating-element control loop simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addLoopFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "run with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [plant]",
		Short: "grid-search controller gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneGains,
	}
	addLoopFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settling_time", "metric to minimize")
	tuneCmd.Flags().IntVar(&pFrom, "p-from", 1, "proportional gain lower bound")
	tuneCmd.Flags().IntVar(&pTo, "p-to", 8, "proportional gain upper bound")
	tuneCmd.Flags().IntVar(&iFrom, "i-from", 0, "integral gain lower bound")
	tuneCmd.Flags().IntVar(&iTo, "i-to", 2, "integral gain upper bound")
	tuneCmd.Flags().IntVar(&dFrom, "d-from", 0, "derivative gain lower bound")
	tuneCmd.Flags().IntVar(&dTo, "d-to", 32, "derivative gain upper bound")
	tuneCmd.Flags().IntVar(&dStep, "d-step", 8, "derivative gain stride")

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list available presets for a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for plant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "detect oscillation in a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, tuneCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "sampling interval in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&controller, "controller", "pid", "controller (pid, bangbang)")
	cmd.Flags().IntVar(&pGain, "p", config.DefaultPGain, "proportional gain")
	cmd.Flags().IntVar(&iGain, "i", config.DefaultIGain, "integral gain")
	cmd.Flags().IntVar(&dGain, "d", config.DefaultDGain, "derivative gain")
	cmd.Flags().IntVar(&windup, "windup", config.DefaultWindup, "integral accumulator limit")
	cmd.Flags().IntVar(&divisor, "divisor", config.DefaultDivisor, "output divisor")
	cmd.Flags().IntVar(&target, "target", config.DefaultTarget, "target reading in ADC counts")
	cmd.Flags().IntVar(&band, "band", config.DefaultBand, "bang-bang hysteresis band in counts")
	cmd.Flags().IntVar(&noise, "noise", 0, "sensor noise amplitude in counts")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig applies preset values first, then config file values
// for any flag the user did not set on the command line. CLI flags
// always win.
func resolveConfig(cmd *cobra.Command, plantName string) error {
	if preset != "" {
		cfg := config.GetPreset(plantName, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(plantName))
		}
		interval = cfg.Interval
		duration = cfg.Duration
		if cfg.Controller != "" {
			controller = cfg.Controller
		}
		pGain = cfg.Gains.P
		iGain = cfg.Gains.I
		dGain = cfg.Gains.D
		windup = cfg.Gains.Windup
		divisor = cfg.Gains.Divisor
		target = cfg.Gains.Target
		if cfg.Gains.Band != 0 {
			band = cfg.Gains.Band
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("interval") {
			interval = cfg.Interval
		}
		if !cmd.Flags().Changed("time") {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("controller") && cfg.Controller != "" {
			controller = cfg.Controller
		}
		if !cmd.Flags().Changed("p") {
			pGain = cfg.Gains.P
		}
		if !cmd.Flags().Changed("i") {
			iGain = cfg.Gains.I
		}
		if !cmd.Flags().Changed("d") {
			dGain = cfg.Gains.D
		}
		if !cmd.Flags().Changed("windup") {
			windup = cfg.Gains.Windup
		}
		if !cmd.Flags().Changed("divisor") {
			divisor = cfg.Gains.Divisor
		}
		if !cmd.Flags().Changed("target") {
			target = cfg.Gains.Target
		}
		if !cmd.Flags().Changed("band") && cfg.Gains.Band != 0 {
			band = cfg.Gains.Band
		}
		if !cmd.Flags().Changed("noise") {
			noise = cfg.Sensor.Noise
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
		sensorMin = cfg.Sensor.MinTemp
		sensorMax = cfg.Sensor.MaxTemp
		plantParams = cfg.PlantParam
	}

	return nil
}

func plantArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "heater"
}

func controllerParams() experiment.ControllerParams {
	return experiment.ControllerParams{
		P:       pGain,
		I:       iGain,
		D:       dGain,
		Windup:  windup,
		Divisor: divisor,
		Target:  target,
		Band:    band,
	}
}

func makeSensor() sim.Sensor {
	c := adc.NewConverter(seed)
	c.Noise = noise
	if sensorMax > sensorMin && sensorMax != 0 {
		c.MinTemp = sensorMin
		c.MaxTemp = sensorMax
	}
	return c
}

func makePlant(registry *experiment.Registry, name string) (sim.Plant, error) {
	p, err := registry.GetPlant(name)
	if err != nil {
		return nil, err
	}
	type paramSetter interface {
		SetParam(name string, value float64) error
	}
	if ps, ok := p.(paramSetter); ok {
		overrides := map[string]float64{
			"ambient":   plantParams.Ambient,
			"capacity":  plantParams.Capacity,
			"loss":      plantParams.Loss,
			"max_power": plantParams.MaxPower,
		}
		for param, val := range overrides {
			if val != 0 {
				if err := ps.SetParam(param, val); err != nil {
					return nil, err
				}
			}
		}
	}
	return p, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	plantName := plantArg(args)

	if err := resolveConfig(cmd, plantName); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	p, err := makePlant(registry, plantName)
	if err != nil {
		return err
	}

	ctrl, err := registry.GetController(controller, controllerParams())
	if err != nil {
		return err
	}

	cfg := experiment.Config{
		Plant:      plantName,
		Controller: controller,
		Interval:   interval,
		Duration:   duration,
		Seed:       seed,
		Params:     controllerParams(),
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(p, makeSensor(), ctrl, registry.DefaultMetrics(target)); err != nil {
		return err
	}

	fmt.Printf("running %s with %s controller...\n", plantName, controller)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(plantName, interval, duration, seed, controller, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.Samples))
	if n := len(result.Samples); n > 0 {
		last := result.Samples[n-1]
		fmt.Printf("final: temp=%.1fC reading=%d drive=%d\n", last.Temp, last.Reading, last.Drive)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.4f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	plantName := plantArg(args)

	if err := resolveConfig(cmd, plantName); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	build := func() *sim.Loop {
		p, err := makePlant(registry, plantName)
		if err != nil {
			return nil
		}
		ctrl, err := registry.GetController(controller, controllerParams())
		if err != nil {
			return nil
		}
		return sim.New(p, makeSensor(), ctrl)
	}

	// Fail early on bad names or gains rather than inside the TUI.
	if _, err := makePlant(registry, plantName); err != nil {
		return err
	}
	if _, err := registry.GetController(controller, controllerParams()); err != nil {
		return err
	}

	return tui.Run(build, interval, duration, target)
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
	fmt.Fprintln(w, "ID\tPLANT\tTIME\tDURATION\tINTERVAL\tCTRL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%.2fs\t%s\n",
			run.ID,
			run.Plant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Interval,
			run.Controller,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s, controller: %s\n", meta.Plant, meta.Controller)
	fmt.Printf("samples: %d\n\n", len(samples))

	readings := make([]float64, len(samples))
	drives := make([]float64, len(samples))
	for i, s := range samples {
		readings[i] = float64(s.Reading)
		drives[i] = float64(s.Drive)
	}

	graph := asciigraph.Plot(readings,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("reading vs time"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(drives,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("drive vs time"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "temp", "reading", "drive"}); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 3, 64),
			strconv.FormatFloat(s.Temp, 'f', 4, 64),
			strconv.Itoa(s.Reading),
			strconv.Itoa(s.Drive),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{Samples: samples, Metrics: meta.Metrics}
	return storage.ExportJSONStdout(meta.Plant, meta.Controller, meta.Interval, meta.Duration, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s, controller: %s\n\n", meta.Plant, meta.Controller)

	data := make([]float64, len(samples))
	mean := 0.0
	for i, s := range samples {
		data[i] = float64(s.Reading)
		mean += data[i]
	}
	mean /= float64(len(data))
	for i := range data {
		data[i] -= mean
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("reading power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	period := analysis.CyclePeriod(samples, meta.Interval)
	if period > 0 {
		fmt.Printf("dominant cycle period: %.1f s\n", period)
	} else {
		fmt.Println("no dominant oscillation detected")
	}

	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	plantName := plantArg(args)

	if err := resolveConfig(cmd, plantName); err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	build := func(params map[string]int) (*experiment.Experiment, error) {
		p, err := makePlant(registry, plantName)
		if err != nil {
			return nil, err
		}

		cp := controllerParams()
		cp.P = params["p"]
		cp.I = params["i"]
		cp.D = params["d"]
		ctrl, err := registry.GetController(controller, cp)
		if err != nil {
			return nil, err
		}

		cfg := experiment.Config{
			Plant:      plantName,
			Controller: controller,
			Interval:   interval,
			Duration:   duration,
			Seed:       seed,
			Params:     cp,
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(p, makeSensor(), ctrl, registry.DefaultMetrics(target)); err != nil {
			return nil, err
		}
		return exp, nil
	}

	gs := optim.NewGridSearch(
		[]string{"p", "i", "d"},
		[][]int{
			optim.Range(pFrom, pTo, 1),
			optim.Range(iFrom, iTo, 1),
			optim.Range(dFrom, dTo, dStep),
		},
	)

	combos := len(optim.Range(pFrom, pTo, 1)) * len(optim.Range(iFrom, iTo, 1)) * len(optim.Range(dFrom, dTo, dStep))
	fmt.Printf("searching %d gain combinations, minimizing %s...\n", combos, tuneMetric)
	start := time.Now()

	best, val, err := gs.Search(context.Background(), build, tuneMetric)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no valid gain combination found")
	}

	fmt.Printf("done in %v\n\n", time.Since(start))
	fmt.Printf("best gains: p=%d i=%d d=%d (windup=%d divisor=%d target=%d)\n",
		best["p"], best["i"], best["d"], windup, divisor, target)
	fmt.Printf("%s: %.4f\n", tuneMetric, val)

	return nil
}
