package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	tea "github.com/charmbracelet/bubbletea"

	"marathon-pacer/internal/config"
	"marathon-pacer/internal/service"
	"marathon-pacer/internal/store"
	"marathon-pacer/internal/tui"
	"marathon-pacer/internal/weather"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Marathon pacing planner",
	Long: `pacer computes per-segment target paces for a marathon from course
geometry, wind, and temperature, holding metabolic effort constant so
the total matches your goal time.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI owns the terminal, so it gets no stderr logger.
		if cmd.Name() == "pacer" {
			logger = zap.NewNop()
			return nil
		}

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(loginCmd)

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesImportCmd)
	coursesCmd.AddCommand(coursesImportRouteCmd)
	coursesCmd.AddCommand(coursesRoutesCmd)
	coursesCmd.AddCommand(coursesExportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// deps bundles everything a command needs.
type deps struct {
	cfg     *config.Config
	db      *store.DB
	courses *service.CourseService
	plans   *service.PlanService
}

// openDeps loads config, opens the database, and builds the services. The
// bundled courses are seeded on first use.
func openDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	d := &deps{
		cfg:     cfg,
		db:      db,
		courses: service.NewCourseService(db, logger),
		plans:   service.NewPlanService(db, logger),
	}
	if err := d.courses.SeedBuiltins(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *deps) Close() {
	d.db.Close()
}

func runTUI() error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	app := tui.NewApp(d.cfg, d.courses, d.plans, weather.NewClient(""))
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
