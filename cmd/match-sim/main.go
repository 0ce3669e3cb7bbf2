package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/placematch/instance"
)

func main() {
	app := &cli.App{
		Name:  "match-sim",
		Usage: "Place agents into capacity limited localities",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"vv"},
				Usage:   "log the optimizer decisions",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print the collected metrics to stderr",
			},
		},
		Commands: []*cli.Command{
			runCmd,
			compareCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

var instanceFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "instance",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "specify the instance file (.yaml, .json or .toml)",
	},
	&cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "specify the output report.json, stdout when omitted",
	},
	&cli.Uint64Flag{
		Name:  "seed",
		Usage: "override the instance seed",
	},
	&cli.IntFlag{
		Name:  "samples",
		Usage: "override the Monte Carlo samples per estimate",
	},
}

var runCmd = &cli.Command{
	Name:    "run",
	Usage:   "Optimize an instance with one strategy",
	Aliases: []string{"r"},
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Value:   instance.StrategyGreedy,
			Usage:   "specify the strategy (greedy, exact or random)",
		},
	}, instanceFlags...),
	Action: func(ctx *cli.Context) error {
		inst, err := loadInstance(ctx)
		if err != nil {
			return err
		}
		return doRun(ctx.Context, newSim(ctx), inst, ctx.String("strategy"), ctx.String("out"))
	},
}

var compareCmd = &cli.Command{
	Name:    "compare",
	Usage:   "Optimize an instance with several strategies concurrently",
	Aliases: []string{"c"},
	Flags: append([]cli.Flag{
		&cli.StringSliceFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Value:   cli.NewStringSlice(instance.Strategies...),
			Usage:   "specify the strategies to compare",
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "limit the concurrent strategies, 0 for no limit",
		},
	}, instanceFlags...),
	Action: func(ctx *cli.Context) error {
		parallel := ctx.Int("parallel")
		if parallel < 0 {
			return fmt.Errorf("invalid parallel %d", parallel)
		}
		inst, err := loadInstance(ctx)
		if err != nil {
			return err
		}
		return doCompare(ctx.Context, newSim(ctx), inst, ctx.StringSlice("strategy"), parallel, ctx.String("out"))
	},
}

func loadInstance(ctx *cli.Context) (*instance.Instance, error) {
	inst, err := instance.Load(ctx.String("instance"))
	if err != nil {
		return nil, fmt.Errorf("load instance file failed: %w", err)
	}

	if ctx.IsSet("seed") {
		seed := ctx.Uint64("seed")
		inst.Seed = &seed
	}
	if ctx.IsSet("samples") {
		samples := ctx.Int("samples")
		inst.RandomSamples = &samples
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func newSim(ctx *cli.Context) *sim {
	level := slog.LevelInfo
	if ctx.Bool("verbose") {
		level = slog.LevelDebug
	}
	s := &sim{
		log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
	if ctx.Bool("metrics") {
		s.metrics = newMetrics()
		s.metricsOut = os.Stderr
	}
	return s
}
