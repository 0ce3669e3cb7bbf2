// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instance

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/someonegg/placematch"
	"github.com/someonegg/placematch/lp"
	"github.com/someonegg/placematch/montecarlo"
	"github.com/someonegg/placematch/utility"
)

var (
	ErrUnknownFormat   = errors.New("unknown instance format")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Random streams derived from the instance seed.
const (
	streamModel     = 0x6d6f64656c
	streamOptimizer = 0x6f7074
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads an instance file, the format is chosen by its extension.
func Load(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	inst, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if inst.Name == "" {
		inst.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return inst, nil
}

// Parse decodes and validates an instance. format is a file extension,
// ".yaml", ".yml" and ".json" are decoded as YAML and ".toml" as TOML.
func Parse(data []byte, format string) (*Instance, error) {
	inst := &Instance{}
	switch strings.ToLower(format) {
	case ".yaml", ".yml", ".json":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(inst); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(inst); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate checks the declarative constraints of the instance and resolves
// its defaults. It must be called, directly or by Load and Parse, before the
// instance builds anything; the builders are then safe for concurrent use.
// Shape errors of the model tables are reported by BuildModel.
func (in *Instance) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid instance: %w", err)
	}
	in.init()
	return nil
}

func (in *Instance) init() {
	if in.Seed == nil {
		in.seed = DefaultSeed
	} else {
		in.seed = *in.Seed
	}

	if in.RandomSamples == nil {
		in.samples = DefaultRandomSamples
	} else {
		in.samples = *in.RandomSamples
	}

	if in.RandomTrials == nil {
		in.trials = DefaultRandomTrials
	} else {
		in.trials = *in.RandomTrials
	}
}

// BuildModel builds a fresh model of the instance. Stochastic models get their
// own random source seeded from the instance seed, so equal instances build
// models that evaluate identically.
func (in *Instance) BuildModel() (placematch.Model, error) {
	spec := &in.Model
	rng := rand.New(rand.NewPCG(in.seed, streamModel))

	var (
		model placematch.Model
		err   error
	)
	switch spec.Kind {
	case KindAdditive:
		model, err = utility.NewAdditive(in.Caps, spec.Utility)
	case KindCoordination:
		model, err = utility.NewCoordination(in.Caps, spec.Jobs, spec.Compatibility, in.samples, rng)
	case KindRetroactive:
		corrections := make([][]utility.Correction, len(spec.Corrections))
		for l, row := range spec.Corrections {
			corrections[l] = make([]utility.Correction, len(row))
			for p, c := range row {
				corrections[l][p] = c.Correction()
			}
		}
		model, err = utility.NewRetroactive(in.Caps, spec.Professions, spec.Qualification, corrections, in.samples, rng)
	case KindInterview:
		model, err = utility.NewInterview(in.Caps, spec.Professions, spec.Applicants, spec.Openings, in.samples, rng)
	default:
		err = fmt.Errorf("unknown model kind %q", spec.Kind)
	}
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Optimizer builds the optimizer of the named strategy.
func (in *Instance) Optimizer(strategy string, logger *slog.Logger) (placematch.Optimizer, error) {
	switch strategy {
	case StrategyGreedy:
		return placematch.GreedyOptimizer(logger), nil
	case StrategyExact:
		return placematch.ExactOptimizer(lp.Gonum{MaxNodes: in.MaxNodes}, logger), nil
	case StrategyRandom:
		rng := rand.New(rand.NewPCG(in.seed, streamOptimizer))
		return placematch.RandomOptimizer(in.trials, rng, logger)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, strategy)
	}
}

type cacheStater interface {
	CacheStats() montecarlo.Stats
}

// Run optimizes a fresh model of the instance with the named strategy.
func (in *Instance) Run(strategy string, logger *slog.Logger) (Report, error) {
	opt, err := in.Optimizer(strategy, logger)
	if err != nil {
		return Report{}, err
	}
	model, err := in.BuildModel()
	if err != nil {
		return Report{}, fmt.Errorf("build %s model: %w", in.Model.Kind, err)
	}
	counted := placematch.Counted(model)

	start := time.Now()
	res, err := opt.Optimize(counted)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", strategy, err)
	}

	r := Report{
		RunID:       uuid.NewString(),
		Instance:    in.Name,
		Strategy:    strategy,
		Result:      res,
		Evaluations: counted.Evaluations(),
		Elapsed:     time.Since(start),
	}
	if cs, ok := model.(cacheStater); ok {
		stats := cs.CacheStats()
		r.CacheHits, r.CacheMisses = stats.Hits, stats.Misses
	}
	return r, nil
}

// Correction builds the correction function described by c.
func (c CorrectionSpec) Correction() utility.Correction {
	switch c.Kind {
	case "capped":
		return utility.Capped{Value: c.Value, Cap: c.Cap}
	case "sqrt":
		return utility.Sqrt(c.Value)
	case "table":
		return utility.Table(c.Table)
	default:
		return utility.Linear(c.Value)
	}
}
