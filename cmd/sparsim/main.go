package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/sparsim/sparsim/internal/config"
	"github.com/sparsim/sparsim/internal/domain"
	"github.com/sparsim/sparsim/internal/output"
	"github.com/sparsim/sparsim/internal/simulation"
	"github.com/sparsim/sparsim/internal/tui"
)

// simpleCLILogger implements simulation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sparsim",
	Short: "Savings plan projection CLI",
	Long:  "Long-horizon savings-plan simulator: fees, taxes, rebalancing, withdrawals, Monte Carlo and IRR",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Run the deterministic projection for every plan in the file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args[0])
		planFilter, _ := cmd.Flags().GetString("plan")
		debugMode, _ := cmd.Flags().GetBool("debug")

		reports := buildReports(selectPlans(cfg, planFilter), nil, debugMode)
		writeOutput(cmd, reports)
	},
}

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo [plan-file]",
	Short: "Run the randomized batch and report the outcome distribution",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args[0])
		planFilter, _ := cmd.Flags().GetString("plan")
		debugMode, _ := cmd.Flags().GetBool("debug")

		mc := cfg.MonteCarlo
		if runs, _ := cmd.Flags().GetInt("runs"); runs > 0 {
			mc.Runs = runs
		}
		if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
			mc.Seed = seed
		}

		reports := buildReports(selectPlans(cfg, planFilter), &mc, debugMode)
		writeOutput(cmd, reports)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare all plans in the file side by side",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(args[0])
		debugMode, _ := cmd.Flags().GetBool("debug")
		if len(cfg.Plans) < 2 {
			log.Fatal("compare needs at least two plans in the file")
		}

		reports := buildReports(cfg.Plans, nil, debugMode)
		writeOutput(cmd, reports)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [plan-file]",
	Short: "Browse plan results interactively",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "sparsim %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}

func loadConfig(path string) *config.Configuration {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func selectPlans(cfg *config.Configuration, label string) []domain.PlanParameters {
	if label == "" {
		return cfg.Plans
	}
	for _, plan := range cfg.Plans {
		if plan.Label == label {
			return []domain.PlanParameters{plan}
		}
	}
	log.Fatalf("plan %q not found in file", label)
	return nil
}

// buildReports runs the deterministic projection (and optionally the Monte
// Carlo batch) for every plan and solves the IRR of each cashflow stream.
func buildReports(plans []domain.PlanParameters, mc *config.MonteCarloSettings, debugMode bool) []output.PlanReport {
	reports := make([]output.PlanReport, 0, len(plans))
	for _, plan := range plans {
		engine := simulation.NewEngine(plan)
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}
		result := engine.Run()

		report := output.PlanReport{
			Plan:   plan,
			Result: result,
			IRR:    simulation.IRR(result.Cashflows),
		}
		if mc != nil {
			driver := simulation.NewMonteCarloDriver(plan, mc.Runs)
			if debugMode {
				driver.SetLogger(simpleCLILogger{})
			}
			if mc.Seed != 0 {
				driver.SetSource(rand.NewPCG(mc.Seed, mc.Seed))
			}
			report.MonteCarlo = driver.Run()
		}
		reports = append(reports, report)
	}
	return reports
}

func writeOutput(cmd *cobra.Command, reports []output.PlanReport) {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		log.Fatalf("unsupported format: %s", format)
	}
	data, err := f.Format(reports)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
}

func init() {
	for _, c := range []*cobra.Command{simulateCmd, montecarloCmd, compareCmd} {
		c.Flags().String("format", "console", "Output format: console, csv, json")
		c.Flags().Bool("debug", false, "Enable debug logging")
	}
	simulateCmd.Flags().String("plan", "", "Only run the plan with this label")
	montecarloCmd.Flags().String("plan", "", "Only run the plan with this label")
	montecarloCmd.Flags().Int("runs", 0, "Override the number of Monte Carlo runs")
	montecarloCmd.Flags().Uint64("seed", 0, "Seed for reproducible Monte Carlo draws")

	rootCmd.AddCommand(simulateCmd, montecarloCmd, compareCmd, tuiCmd, versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
