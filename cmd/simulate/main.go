package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	Patients     int
	BookingRatio float64
	StatusRatio  float64
	ReadRatio    float64
	Seed         uint64
}

func main() {
	cmd := &cli.Command{
		Name:   "simulate",
		Usage:  "Drive concurrent patient, doctor and admin traffic against the booking API",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Sources: cli.EnvVars("SIM_API_BASE_URL")},
			&cli.DurationFlag{Name: "duration", Value: 30 * time.Second, Sources: cli.EnvVars("SIM_DURATION")},
			&cli.IntFlag{Name: "workers", Value: 10, Sources: cli.EnvVars("SIM_WORKERS")},
			&cli.IntFlag{Name: "patients", Value: 200, Sources: cli.EnvVars("SIM_PATIENTS")},
			&cli.FloatFlag{Name: "booking-ratio", Value: 0.5, Sources: cli.EnvVars("SIM_BOOKING_RATIO")},
			&cli.FloatFlag{Name: "status-ratio", Value: 0.2, Sources: cli.EnvVars("SIM_STATUS_RATIO")},
			&cli.FloatFlag{Name: "read-ratio", Value: 0.3, Sources: cli.EnvVars("SIM_READ_RATIO")},
			&cli.IntFlag{Name: "seed", Usage: "Random seed; 0 picks one"},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("simulate failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := SimConfig{
		APIBaseURL:   strings.TrimRight(cmd.String("url"), "/"),
		Duration:     cmd.Duration("duration"),
		Workers:      int(cmd.Int("workers")),
		Patients:     int(cmd.Int("patients")),
		BookingRatio: cmd.Float("booking-ratio"),
		StatusRatio:  cmd.Float("status-ratio"),
		ReadRatio:    cmd.Float("read-ratio"),
		Seed:         uint64(cmd.Int("seed")),
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"duration": cfg.Duration,
		"workers":  cfg.Workers,
		"booking":  fmt.Sprintf("%.2f", cfg.BookingRatio),
		"status":   fmt.Sprintf("%.2f", cfg.StatusRatio),
		"read":     fmt.Sprintf("%.2f", cfg.ReadRatio),
	}).Info("simulator starting")

	sim := NewSimulator(cfg)

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sim.LoadDoctors(loadCtx); err != nil {
		return err
	}

	if err := sim.Run(ctx); err != nil {
		return err
	}
	sim.PrintReport(os.Stdout)
	return nil
}

func (c *SimConfig) normalize() {
	total := c.BookingRatio + c.StatusRatio + c.ReadRatio
	if total > 0 {
		c.BookingRatio /= total
		c.StatusRatio /= total
		c.ReadRatio /= total
	}
}

func (c SimConfig) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.Patients <= 0 {
		return fmt.Errorf("patients must be > 0")
	}
	return nil
}

// Run starts the workers and waits for the duration to elapse.
func (s *Simulator) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Duration)
	defer cancel()

	logrus.Infof("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.config.Workers; i++ {
		seed := s.config.Seed
		if seed != 0 {
			seed += uint64(i)
		}
		faker := gofakeit.New(seed)
		g.Go(func() error {
			s.worker(gCtx, faker)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logrus.Info("simulation complete")
	return nil
}
