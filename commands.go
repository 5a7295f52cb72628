package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"marathon-pacer/internal/auth"
	"marathon-pacer/internal/pacing"
	"marathon-pacer/internal/store"
	"marathon-pacer/internal/strava"
	"marathon-pacer/internal/vdot"
	"marathon-pacer/internal/weather"
)

var (
	simCourse    string
	simTarget    string
	simVDOT      float64
	simMass      float64
	simTemp      float64
	simWindSpeed float64
	simWindFrom  float64
	simHillPower float64
	simSplit     string
	simSaveAs    string

	importName      string
	importSheltered string

	plansCourse string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compute a pacing plan and print the kilometer splits",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.courses.Get(simCourse)
		if err != nil {
			return fmt.Errorf("loading course %q: %w", simCourse, err)
		}

		params, err := buildParams(d)
		if err != nil {
			return err
		}

		result, err := d.plans.Simulate(c, params)
		if err != nil {
			return err
		}

		printResult(result, params)

		if simSaveAs != "" {
			if _, err := d.plans.SavePlan(simSaveAs, params, result); err != nil {
				return err
			}
			fmt.Printf("\nSaved plan %q.\n", simSaveAs)
		}
		return nil
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Manage stored courses",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		courses, err := d.courses.List()
		if err != nil {
			return err
		}

		fmt.Printf("%-30s %-8s %10s %8s\n", "NAME", "SOURCE", "DISTANCE", "COORDS")
		for _, c := range courses {
			coords := "-"
			if c.StartLat != nil && c.StartLon != nil {
				coords = "yes"
			}
			fmt.Printf("%-30s %-8s %9.2fk %8s\n", c.Name, c.Source, c.DistanceKM, coords)
		}
		return nil
	},
}

var coursesImportCmd = &cobra.Command{
	Use:   "import <file.gpx|file.yaml>",
	Short: "Import a course from a GPX track or a YAML definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		path := args[0]
		switch strings.ToLower(filepath.Ext(path)) {
		case ".gpx":
			sheltered, err := parseSheltered(importSheltered)
			if err != nil {
				return err
			}
			c, err := d.courses.ImportGPX(path, importName, sheltered)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %q (%.2f km, %d segments).\n", c.Name, c.DistanceKM(), len(c.Segments))
		case ".yaml", ".yml":
			c, err := d.courses.ImportYAML(path)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %q (%.2f km, %d segments).\n", c.Name, c.DistanceKM(), len(c.Segments))
		default:
			return fmt.Errorf("unsupported course file %q (want .gpx or .yaml)", path)
		}
		return nil
	},
}

var coursesImportRouteCmd = &cobra.Command{
	Use:   "import-route <route-id>",
	Short: "Import a Strava route as a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		routeID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid route id %q", args[0])
		}

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := context.Background()
		client, err := newStravaClient(ctx, d)
		if err != nil {
			return err
		}

		c, err := d.courses.ImportStravaRoute(ctx, client, routeID, importName)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %q (%.2f km, %d segments).\n", c.Name, c.DistanceKM(), len(c.Segments))
		return nil
	},
}

var coursesRoutesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List your Strava routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := context.Background()
		client, err := newStravaClient(ctx, d)
		if err != nil {
			return err
		}

		storedAuth, err := d.db.GetAuth()
		if err != nil {
			return err
		}

		routes, err := client.GetAllRoutes(ctx, storedAuth.AthleteID)
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %-34s %-5s %10s\n", "ID", "NAME", "TYPE", "DISTANCE")
		for _, r := range routes {
			kind := "ride"
			if r.IsRun() {
				kind = "run"
			}
			fmt.Printf("%-12d %-34s %-5s %9.2fk\n", r.ID, r.Name, kind, r.Distance/1000)
		}
		return nil
	},
}

var coursesExportCmd = &cobra.Command{
	Use:   "export <name> <file.yaml>",
	Short: "Write a stored course out as a YAML definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		return d.courses.ExportYAML(args[0], args[1])
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List saved pacing plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		plans, err := d.plans.ListPlans(plansCourse)
		if err != nil {
			return err
		}

		fmt.Printf("%-6s %-24s %-10s %-10s %-8s\n", "ID", "NAME", "TARGET", "TOTAL", "SPLIT")
		for _, p := range plans {
			fmt.Printf("%-6d %-24s %-10s %-10s %-8s\n",
				p.ID, p.Name,
				pacing.FormatDuration(p.TargetSeconds),
				pacing.FormatDuration(p.TotalSeconds),
				p.SplitStrategy)
		}
		return nil
	},
}

var plansShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Print the stored kilometer splits of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid plan id %q", args[0])
		}

		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		splits, err := d.plans.GetPlanSplits(planID)
		if err != nil {
			return err
		}

		fmt.Printf("%-16s %8s %10s %12s\n", "LAP", "PACE", "TIME", "CUMULATIVE")
		for _, sp := range splits {
			fmt.Printf("%-16s %8s %10s %12s\n",
				sp.Label,
				pacing.FormatPace(sp.PaceSecPerKM),
				pacing.FormatDuration(sp.TimeSec),
				pacing.FormatDuration(sp.CumulativeSec))
		}
		return nil
	},
}

var weatherCmd = &cobra.Command{
	Use:   "weather <course>",
	Short: "Show the current forecast at a course's start",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		c, err := d.courses.Get(args[0])
		if err != nil {
			return err
		}
		if c.StartLat == nil || c.StartLon == nil {
			return fmt.Errorf("course %q has no start coordinates", c.Name)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		cond, err := weather.NewClient("").Current(ctx, *c.StartLat, *c.StartLon)
		if err != nil {
			return err
		}

		fmt.Printf("Conditions at %s (%.4f, %.4f):\n", c.Name, cond.Latitude, cond.Longitude)
		fmt.Printf("  Temperature:  %.1f °C\n", cond.TempC)
		fmt.Printf("  Wind:         %.1f m/s from %.0f° (at 10 m)\n", cond.WindSpeedMS, cond.WindFromDeg)
		fmt.Printf("  Street level: %.1f m/s (what the simulation should use)\n", cond.GroundWindMS())
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Strava",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.cfg.ValidateStrava(); err != nil {
			return err
		}
		return authenticate(context.Background(), d)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simCourse, "course", "Ehime Marathon", "stored course name")
	simulateCmd.Flags().StringVar(&simTarget, "target", "", "goal time (h:mm or h:mm:ss); empty uses VDOT")
	simulateCmd.Flags().Float64Var(&simVDOT, "vdot", 0, "VDOT used when no target time is given (default from config)")
	simulateCmd.Flags().Float64Var(&simMass, "mass", 0, "runner mass in kg (default from config)")
	simulateCmd.Flags().Float64Var(&simTemp, "temp", 15, "air temperature in °C")
	simulateCmd.Flags().Float64Var(&simWindSpeed, "wind-speed", 0, "wind speed in m/s at street level")
	simulateCmd.Flags().Float64Var(&simWindFrom, "wind-from", 0, "direction the wind blows from, degrees")
	simulateCmd.Flags().Float64Var(&simHillPower, "hill-power", 0, "effort on a +5% grade as percent of flat effort (default from config)")
	simulateCmd.Flags().StringVar(&simSplit, "split", "even", "split strategy: even, positive, or negative")
	simulateCmd.Flags().StringVar(&simSaveAs, "save", "", "save the plan under this name")

	coursesImportCmd.Flags().StringVar(&importName, "name", "", "course name (GPX only; defaults to the track name)")
	coursesImportCmd.Flags().StringVar(&importSheltered, "sheltered", "", "km ranges shielded from wind, e.g. \"2-4,10.5-12\" (GPX only)")
	coursesImportRouteCmd.Flags().StringVar(&importName, "name", "", "course name (defaults to the route name)")

	plansCmd.Flags().StringVar(&plansCourse, "course", "", "only plans for this course")
	plansCmd.AddCommand(plansShowCmd)
}

// buildParams turns the simulate flags into pacing params, filling unset
// values from the runner config.
func buildParams(d *deps) (pacing.Params, error) {
	params := pacing.Params{
		MassKG:    simMass,
		TempC:     simTemp,
		HillPower: simHillPower,
		Wind:      pacing.Wind{SpeedMS: simWindSpeed, FromDeg: simWindFrom},
	}
	if params.MassKG == 0 {
		params.MassKG = d.cfg.Runner.MassKG
	}
	if params.HillPower == 0 {
		params.HillPower = d.cfg.Runner.HillPower
	}

	switch simSplit {
	case "even", "":
		params.Split = pacing.SplitEven
	case "positive":
		params.Split = pacing.SplitPositive
	case "negative":
		params.Split = pacing.SplitNegative
	default:
		return params, fmt.Errorf("unknown split strategy %q", simSplit)
	}

	if simTarget != "" {
		target, err := parseTarget(simTarget)
		if err != nil {
			return params, err
		}
		params.TargetTime = target
		return params, nil
	}

	v := simVDOT
	if v == 0 {
		v = d.cfg.Runner.VDOT
	}
	if v == 0 {
		return params, errors.New("no target time: pass --target, --vdot, or set runner.vdot in the config")
	}
	target, err := vdot.MarathonTime(v)
	if err != nil {
		return params, err
	}
	params.TargetTime = target
	return params, nil
}

// parseTarget parses "h:mm" or "h:mm:ss".
func parseTarget(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid target time %q (want h:mm or h:mm:ss)", s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid target time %q", s)
		}
		nums[i] = n
	}

	dur := time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute
	if len(nums) == 3 {
		dur += time.Duration(nums[2]) * time.Second
	}
	return dur, nil
}

// parseSheltered parses "2-4,10.5-12" into km ranges.
func parseSheltered(s string) ([][2]float64, error) {
	if s == "" {
		return nil, nil
	}

	var ranges [][2]float64
	for _, part := range strings.Split(s, ",") {
		bounds := strings.Split(strings.TrimSpace(part), "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid sheltered range %q (want start-end)", part)
		}
		lo, err := strconv.ParseFloat(bounds[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sheltered range %q: %w", part, err)
		}
		hi, err := strconv.ParseFloat(bounds[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sheltered range %q: %w", part, err)
		}
		if hi <= lo {
			return nil, fmt.Errorf("invalid sheltered range %q: end must be past start", part)
		}
		ranges = append(ranges, [2]float64{lo, hi})
	}
	return ranges, nil
}

func printResult(r *pacing.Result, params pacing.Params) {
	fmt.Printf("Course:       %s (%.3f km)\n", r.CourseName, r.DistanceKM)
	fmt.Printf("Finish time:  %s\n", pacing.FormatDuration(r.TotalSeconds))
	fmt.Printf("Average pace: %s min/km\n", pacing.FormatPace(r.AvgPaceSecPerKM))
	fmt.Printf("Effort power: %.0f W (metabolic)\n", r.EffortPower)
	if params.Wind.SpeedMS > 0 {
		fmt.Printf("Wind:         %.1f m/s from %.0f°\n", params.Wind.SpeedMS, params.Wind.FromDeg)
	}
	fmt.Println()

	fmt.Printf("%-16s %8s %10s %12s\n", "LAP", "PACE", "TIME", "CUMULATIVE")
	for _, sp := range r.Splits() {
		fmt.Printf("%-16s %8s %10s %12s\n",
			sp.Label,
			pacing.FormatPace(sp.PaceSecPerKM),
			pacing.FormatDuration(sp.TimeSec),
			pacing.FormatDuration(sp.CumulativeSec))
	}
}

// newStravaClient builds an authenticated API client from the stored tokens,
// running the OAuth flow first if none are stored. Refreshed tokens are
// written back to the database.
func newStravaClient(ctx context.Context, d *deps) (*strava.Client, error) {
	if err := d.cfg.ValidateStrava(); err != nil {
		return nil, err
	}

	storedAuth, err := d.db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, d); err != nil {
			return nil, fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = d.db.GetAuth()
		if err != nil {
			return nil, fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     d.cfg.Strava.ClientID,
		ClientSecret: d.cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return d.db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, d); err != nil {
			return nil, fmt.Errorf("re-authentication: %w", err)
		}
	}

	return strava.NewClient(tokenSource), nil
}

func authenticate(ctx context.Context, d *deps) error {
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     d.cfg.Strava.ClientID,
		ClientSecret: d.cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return err
	}

	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := d.db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}
