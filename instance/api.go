// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instance loads placement instances from YAML, JSON or TOML files
// and builds their models and optimizers.
package instance

import (
	"time"

	"github.com/someonegg/placematch"
)

const (
	KindAdditive     = "additive"
	KindCoordination = "coordination"
	KindRetroactive  = "retroactive"
	KindInterview    = "interview"

	StrategyGreedy = "greedy"
	StrategyExact  = "exact"
	StrategyRandom = "random"
)

// Strategies lists every optimizer an instance can build.
var Strategies = []string{StrategyGreedy, StrategyExact, StrategyRandom}

const (
	DefaultSeed          = 1
	DefaultRandomSamples = 1000
	DefaultRandomTrials  = 100
)

type Instance struct {
	Name string `yaml:"name" toml:"name"`
	Caps []int  `yaml:"caps" toml:"caps" validate:"dive,min=0"`

	Model ModelSpec `yaml:"model" toml:"model"`

	// Seed derives every random source of the instance.
	Seed          *uint64 `yaml:"seed" toml:"seed"`
	RandomSamples *int    `yaml:"random_samples" toml:"random_samples" validate:"omitempty,min=1"`
	RandomTrials  *int    `yaml:"random_trials" toml:"random_trials" validate:"omitempty,min=1"`
	// MaxNodes bounds the branch and bound of the exact optimizer.
	MaxNodes *int `yaml:"max_nodes" toml:"max_nodes" validate:"omitempty,min=1"`

	seed    uint64
	samples int
	trials  int
}

// ModelSpec holds the parameters of one of the utility models, selected by
// Kind; the fields of other kinds are ignored.
type ModelSpec struct {
	Kind string `yaml:"kind" toml:"kind" validate:"required,oneof=additive coordination retroactive interview"`

	// additive: utility[i][l]
	Utility [][]float64 `yaml:"utility" toml:"utility" validate:"required_if=Kind additive"`

	// coordination: jobs[l], compatibility[i][l][j]
	Jobs          []int         `yaml:"jobs" toml:"jobs" validate:"required_if=Kind coordination"`
	Compatibility [][][]float64 `yaml:"compatibility" toml:"compatibility"`

	// retroactive and interview: profession[i]
	Professions []int `yaml:"professions" toml:"professions" validate:"required_if=Kind retroactive,required_if=Kind interview,dive,min=0"`

	// retroactive: qualification[i][l], corrections[l][p]
	Qualification [][]float64        `yaml:"qualification" toml:"qualification"`
	Corrections   [][]CorrectionSpec `yaml:"corrections" toml:"corrections" validate:"required_if=Kind retroactive,dive,dive"`

	// interview: applicants[i], openings[l][p]
	Applicants []float64 `yaml:"applicants" toml:"applicants" validate:"required_if=Kind interview"`
	Openings   [][]int   `yaml:"openings" toml:"openings"`
}

type CorrectionSpec struct {
	Kind  string    `yaml:"kind" toml:"kind" validate:"required,oneof=linear capped sqrt table"`
	Value float64   `yaml:"value" toml:"value"`
	Cap   int       `yaml:"cap" toml:"cap" validate:"min=0"`
	Table []float64 `yaml:"table" toml:"table" validate:"required_if=Kind table"`
}

// Report is the outcome of one optimizer run on an instance.
type Report struct {
	RunID    string `json:"run_id"`
	Instance string `json:"instance"`
	Strategy string `json:"strategy"`

	placematch.Result

	// Evaluations counts the utility evaluations of the optimizer.
	Evaluations int `json:"evaluations"`
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`

	Elapsed time.Duration `json:"elapsed_ns"`
}
