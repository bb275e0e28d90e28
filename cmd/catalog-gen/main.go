package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/hackgods/clinic-scheduling/internal/directory"
)

func main() {
	cmd := &cli.Command{
		Name:   "catalog-gen",
		Usage:  "Write a doctor catalog YAML with the built-in doctors plus generated ones",
		Action: run,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of generated doctors",
				Value:   20,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random seed; 0 picks one",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file, stdout when empty",
				Sources: cli.EnvVars("CATALOG_OUT"),
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing output file",
			},
			&cli.BoolFlag{
				Name:  "no-builtin",
				Usage: "Skip the built-in doctors",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("catalog-gen failed")
	}
}

func run(_ context.Context, cmd *cli.Command) (err error) {
	count := int(cmd.Int("count"))
	if count < 0 {
		return fmt.Errorf("count must be >= 0")
	}

	var doctors []directory.Doctor
	if !cmd.Bool("no-builtin") {
		builtin, err := directory.DefaultCatalog()
		if err != nil {
			return err
		}
		doctors = builtin
	}

	faker := gofakeit.New(uint64(cmd.Int("seed")))
	doctors = append(doctors, directory.FakeDoctors(faker, len(doctors)+1, count)...)

	// Reject anything the server would refuse to load.
	if _, err := directory.NewIndex(doctors); err != nil {
		return fmt.Errorf("generated catalog is invalid: %w", err)
	}

	var w io.Writer = os.Stdout
	if path := cmd.String("out"); path != "" {
		f, openErr := openOutput(path, cmd.Bool("force"))
		if openErr != nil {
			return openErr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", path, cerr)
			}
		}()
		w = f
	}

	if err := directory.WriteCatalog(w, doctors); err != nil {
		return err
	}
	logrus.WithField("doctors", len(doctors)).Info("catalog written")
	return nil
}

// openOutput refuses to replace an existing catalog unless force is set.
func openOutput(path string, force bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%s already exists, pass --force to overwrite", path)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
