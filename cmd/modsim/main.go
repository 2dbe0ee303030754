package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/modsim/internal/config"
	"github.com/san-kum/modsim/internal/models"
	"github.com/san-kum/modsim/internal/ode"
	"github.com/san-kum/modsim/internal/solver"
	"github.com/san-kum/modsim/internal/store"
	"github.com/san-kum/modsim/internal/tui"
)

var (
	configFile  string
	solverName  string
	t0          float64
	tEnd        float64
	relTol      float64
	absTol      float64
	initialStep float64
	maxSteps    int
	noEvents    bool
	component   int
	jsonPath    string
	csvPath     string
	// live view
	liveDt float64
	// sweep
	sweepField int
	sweepFrom  float64
	sweepTo    float64
	sweepCount int
)

var logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

func main() {
	rootCmd := &cobra.Command{
		Use:   "modsim",
		Short: "modeling and simulation of small physical systems",
	}

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&solverName, "solver", "rk45", "stepper (euler, rk4, rk45)")
	runCmd.Flags().Float64Var(&t0, "t0", 0, "start time")
	runCmd.Flags().Float64Var(&tEnd, "time", 0, "end time (0 uses the model default)")
	runCmd.Flags().Float64Var(&relTol, "rtol", 0, "relative tolerance")
	runCmd.Flags().Float64Var(&absTol, "atol", 0, "absolute tolerance")
	runCmd.Flags().Float64Var(&initialStep, "dt", 0, "initial (or fixed) step size")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget")
	runCmd.Flags().BoolVar(&noEvents, "no-events", false, "ignore the model's stop events")
	runCmd.Flags().IntVar(&component, "component", 0, "state field to graph")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write run results as json")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "stream trajectory samples as csv")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list bundled models",
		RunE:  listModels,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "vary one initial-state field across parallel runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&solverName, "solver", "rk45", "stepper (euler, rk4, rk45)")
	sweepCmd.Flags().IntVar(&sweepField, "field", 0, "initial-state field index to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 10, "number of runs")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch a model integrate in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&liveDt, "dt", 0.01, "fixed step size")

	rootCmd.AddCommand(runCmd, modelsCmd, sweepCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func stepperFor(name string) (ode.Stepper, error) {
	switch name {
	case "euler":
		return solver.NewEuler(), nil
	case "rk4":
		return solver.NewRK4(), nil
	case "rk45":
		return solver.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name := args[0]

	setup, err := models.NewRegistry().Get(name)
	if err != nil {
		return err
	}

	cfg := setup.Config
	x0 := setup.X0

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		fileCfg.Model = name
		cfg = fileCfg.DriverConfig(cfg)
		if s := fileCfg.GetInitState(); s != nil {
			x0 = s
		}
		if fileCfg.NoEvents {
			noEvents = true
		}
		if !cmd.Flags().Changed("solver") && fileCfg.Solver != "" {
			solverName = fileCfg.Solver
		}
	}

	if cmd.Flags().Changed("t0") {
		cfg.T0 = t0
	}
	if cmd.Flags().Changed("time") {
		cfg.TEnd = tEnd
	}
	if cmd.Flags().Changed("rtol") {
		cfg.RelTol = relTol
	}
	if cmd.Flags().Changed("atol") {
		cfg.AbsTol = absTol
	}
	if cmd.Flags().Changed("dt") {
		cfg.InitialStep = initialStep
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}

	stepper, err := stepperFor(solverName)
	if err != nil {
		return err
	}

	drv := ode.New(setup.Sys, stepper)
	if !noEvents {
		for _, ev := range setup.Events {
			drv.AddEvent(ev)
		}
	}

	var rec *store.Recorder
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		rec = store.NewRecorder(f, setup.Labels)
		drv.AddObserver(rec)
	}

	start := time.Now()
	res, runErr := drv.Run(cmd.Context(), x0, cfg)
	if res == nil {
		return runErr
	}

	logger.Log("msg", "run finished",
		"model", name,
		"solver", solverName,
		"success", res.Success,
		"steps", res.Steps,
		"rejected", res.Rejected,
		"evals", res.Evals,
		"elapsed", time.Since(start))

	if runErr != nil && !ode.IsIntegrationFailure(runErr) {
		return runErr
	}

	printSummary(name, setup, res)

	if rec != nil {
		if err := rec.Flush(); err != nil {
			return err
		}
	}
	if jsonPath != "" {
		f, err := os.Create(jsonPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := store.WriteJSON(f, name, solverName, setup.Labels, res); err != nil {
			return err
		}
	}

	return runErr
}

func printSummary(name string, setup models.Setup, res *ode.Result) {
	tEndT, last := res.Last()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", name)
	fmt.Fprintf(w, "status\t%s\n", res.Message)
	fmt.Fprintf(w, "samples\t%d\n", len(res.Times))
	fmt.Fprintf(w, "t\t%.6g\n", tEndT)
	for i, label := range setup.Labels {
		fmt.Fprintf(w, "%s\t%.6g\n", label, last[i])
	}
	for _, c := range res.Crossings {
		fmt.Fprintf(w, "event %s\tt=%.6g\n", c.Name, c.T)
	}
	w.Flush()

	comp := component
	if comp < 0 || comp >= len(setup.Labels) {
		comp = 0
	}
	series := downsample(res.Component(comp), 100)
	if len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Caption(setup.Labels[comp])))
	}
}

func downsample(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = series[i*(len(series)-1)/(n-1)]
	}
	return out
}

func listModels(cmd *cobra.Command, args []string) error {
	reg := models.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := args[0]
	if sweepCount < 2 {
		return errors.New("sweep needs at least two runs")
	}

	reg := models.NewRegistry()
	probe, err := reg.Get(name)
	if err != nil {
		return err
	}
	if sweepField < 0 || sweepField >= len(probe.Labels) {
		return fmt.Errorf("field index %d out of range for %s", sweepField, name)
	}

	problems := make([]ode.Problem, sweepCount)
	values := make([]float64, sweepCount)
	for i := 0; i < sweepCount; i++ {
		setup, err := reg.Get(name)
		if err != nil {
			return err
		}
		stepper, err := stepperFor(solverName)
		if err != nil {
			return err
		}

		values[i] = sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepCount-1)
		x0 := setup.X0.Clone()
		x0[sweepField] = values[i]

		problems[i] = ode.Problem{
			Sys:     setup.Sys,
			Stepper: stepper,
			X0:      x0,
			Config:  setup.Config,
			Events:  setup.Events,
		}
	}

	logger.Log("msg", "sweep started", "model", name, "field", probe.Labels[sweepField], "runs", sweepCount)
	start := time.Now()
	results, err := ode.Batch(cmd.Context(), problems)
	if err != nil {
		return err
	}
	logger.Log("msg", "sweep finished", "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tt_final\toutcome\n", probe.Labels[sweepField])
	for i, res := range results {
		t, _ := res.Last()
		fmt.Fprintf(w, "%.6g\t%.6g\t%s\n", values[i], t, res.Message)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	setup, err := models.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}

	m := tui.NewModel(args[0], setup, solver.NewRK4(), liveDt)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
