// Command etactl runs predictions, sweeps and dataset analytics from the
// command line against the same model and dataset store as the server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/delivery-eta/internal/charts"
	"github.com/ZanzyTHEbar/delivery-eta/internal/config"
	"github.com/ZanzyTHEbar/delivery-eta/internal/database"
	"github.com/ZanzyTHEbar/delivery-eta/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/monitoring"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "etactl:", err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			for field, problem := range appErr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, problem)
			}
		}
		os.Exit(1)
	}
}

// cliState is shared between the Before hook and the command actions
type cliState struct {
	cfg    *config.Config
	logger *monitoring.Logger
}

func newApp(stdout, stderr io.Writer) *cli.App {
	state := &cliState{}

	return &cli.App{
		Name:      "etactl",
		Usage:     "delivery ETA predictions and dataset analytics",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Usage: "model artifact path", EnvVars: []string{"MODEL_PATH"}},
			&cli.StringFlag{Name: "data-dir", Usage: "directory holding the default dataset store", EnvVars: []string{"DATA_DIR"}},
			&cli.StringFlag{Name: "database-url", Usage: "dataset store (sqlite path or postgres:// URL)", EnvVars: []string{"DATABASE_URL"}},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.IsSet("data-dir") {
				cfg.DataDir = c.String("data-dir")
			}
			if c.IsSet("model") {
				cfg.ModelPath = c.String("model")
			}
			if c.IsSet("database-url") {
				cfg.DatabaseURL = c.String("database-url")
			}

			state.cfg = cfg
			state.logger = monitoring.NewLoggerWithWriter(stderr, monitoring.ParseLevel(c.String("log-level")))
			slog.SetDefault(state.logger.Logger)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "predict",
				Usage:  "estimate the delivery time for one request",
				Flags:  requestFlags(),
				Action: state.predict,
			},
			{
				Name:   "sweep",
				Usage:  "re-predict the request at -2, 0 and +2 km",
				Flags:  requestFlags(),
				Action: state.sweep,
			},
			{
				Name:  "import",
				Usage: "load a delivery CSV into the dataset store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "csv", Usage: "CSV file to import", Required: true},
				},
				Action: state.importCSV,
			},
			{
				Name:  "kpis",
				Usage: "print headline KPIs for a scope of the dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "time", Usage: "time of day filter"},
					&cli.StringFlag{Name: "traffic", Usage: "traffic level filter"},
					&cli.StringFlag{Name: "weather", Usage: "weather filter"},
					&cli.Float64Flag{Name: "late-threshold", Value: dataset.DefaultLateThresholdMin, Usage: "minutes above which a delivery is late"},
				},
				Action: state.kpis,
			},
			{
				Name:  "chart",
				Usage: "write the distance sensitivity chart as PNG",
				Flags: append(requestFlags(),
					&cli.StringFlag{Name: "out", Usage: "output PNG file", Required: true},
				),
				Action: state.chart,
			},
		},
	}
}

func requestFlags() []cli.Flag {
	def := prediction.DefaultRequest()
	return []cli.Flag{
		&cli.StringFlag{Name: "traffic", Value: def.TrafficLevel, Usage: "Low, Medium or High"},
		&cli.StringFlag{Name: "experience", Value: def.CourierExperienceCategory, Usage: "Beginner, Intermediate or Expert"},
		&cli.StringFlag{Name: "weather", Value: def.Weather, Usage: "Sunny, Rainy or Cloudy"},
		&cli.StringFlag{Name: "time", Value: def.TimeOfDay, Usage: "Morning, Afternoon, Evening or Night"},
		&cli.StringFlag{Name: "vehicle", Value: def.VehicleType, Usage: "Motorcycle, Car or Bicycle"},
		&cli.Float64Flag{Name: "distance", Value: def.DistanceKm, Usage: "distance in km"},
		&cli.IntFlag{Name: "prep", Value: def.PreparationTimeMin, Usage: "preparation time in minutes"},
		&cli.IntFlag{Name: "years", Value: def.CourierExperienceYrs, Usage: "courier experience in years"},
		&cli.Int64Flag{Name: "seed", Usage: "band random seed, 0 seeds from the clock"},
	}
}

func requestFromFlags(c *cli.Context) types.DeliveryRequest {
	return types.DeliveryRequest{
		TrafficLevel:              c.String("traffic"),
		CourierExperienceCategory: c.String("experience"),
		Weather:                   c.String("weather"),
		TimeOfDay:                 c.String("time"),
		VehicleType:               c.String("vehicle"),
		DistanceKm:                c.Float64("distance"),
		PreparationTimeMin:        c.Int("prep"),
		CourierExperienceYrs:      c.Int("years"),
	}
}

func (s *cliState) service(c *cli.Context) (*prediction.Service, error) {
	engine, err := model.LoadEngine(s.cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	return prediction.NewService(engine, prediction.NewRandomSource(c.Int64("seed"))), nil
}

func (s *cliState) openStore(c *cli.Context) (*database.DB, *database.DatasetService, error) {
	db, err := database.NewDB(c.Context, s.cfg.DataDir, s.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return db, database.NewDatasetService(database.NewRepository(db)), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *cliState) predict(c *cli.Context) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}

	req := requestFromFlags(c)
	start := time.Now()
	result, err := svc.Predict(c.Context, req)
	if err != nil {
		return err
	}
	s.logger.PredictionLogger(req.DistanceKm, result.PointEstimate, string(result.RiskTier), time.Since(start))

	style := prediction.StyleFor(result.RiskTier)
	fmt.Fprintf(c.App.Writer, "Estimated delivery time: %.2f min\n", result.PointEstimate)
	fmt.Fprintf(c.App.Writer, "Expected range: %.1f - %.1f min (stability +/- %.1f)\n",
		result.LowerBound, result.UpperBound, result.Stability)
	fmt.Fprintf(c.App.Writer, "Risk: %s\n", style.Label)
	fmt.Fprintln(c.App.Writer, prediction.StrategicInsight(result.RiskTier).Summary)
	return nil
}

func (s *cliState) sweep(c *cli.Context) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}

	set, err := svc.Sweep(c.Context, requestFromFlags(c))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHIFT\tDISTANCE\tETA\tRANGE")
	for _, sc := range set.Scenarios {
		fmt.Fprintf(tw, "%+.0f km\t%.1f km\t%.2f\t%.1f - %.1f\n",
			sc.Shift, sc.DistanceKm, sc.Result.PointEstimate, sc.Result.LowerBound, sc.Result.UpperBound)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Impact: %.2f min (%s)\n", set.Impact, set.Sensitivity)
	fmt.Fprintln(c.App.Writer, prediction.Interpretation(set.Sensitivity))
	return nil
}

func (s *cliState) importCSV(c *cli.Context) error {
	db, datasets, err := s.openStore(c)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	batch, err := datasets.ImportFile(c.Context, c.String("csv"))
	if err != nil {
		return err
	}
	s.logger.DatasetLogger(batch.Source, batch.RowsRead, batch.RowsSkipped, batch.RowsImported, time.Since(start))

	fmt.Fprintf(c.App.Writer, "Imported %d of %d rows (%d skipped), batch %s\n",
		batch.RowsImported, batch.RowsRead, batch.RowsSkipped, batch.ID)
	return nil
}

type kpiReport struct {
	Scope         types.Scope     `json:"scope"`
	Summary       dataset.Summary `json:"summary"`
	EscalationPct float64         `json:"escalation_pct"`
}

func (s *cliState) kpis(c *cli.Context) error {
	db, datasets, err := s.openStore(c)
	if err != nil {
		return err
	}
	defer db.Close()

	scope := types.Scope{
		TimeOfDay:    c.String("time"),
		TrafficLevel: c.String("traffic"),
		Weather:      c.String("weather"),
	}

	all, err := datasets.Deliveries(c.Context, types.Scope{})
	if err != nil {
		return err
	}
	scoped, err := datasets.Deliveries(c.Context, scope)
	if err != nil {
		return err
	}

	return writeJSON(c.App.Writer, kpiReport{
		Scope:         scope,
		Summary:       dataset.Summarize(scoped, c.Float64("late-threshold")),
		EscalationPct: dataset.StructuralEscalation(scoped, all),
	})
}

func (s *cliState) chart(c *cli.Context) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}

	set, err := svc.Sweep(c.Context, requestFromFlags(c))
	if err != nil {
		return err
	}

	out := c.String("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := charts.WriteSensitivityPNG(f, set); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %s\n", out)
	return nil
}
