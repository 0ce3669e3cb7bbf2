// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/someonegg/placematch/instance"
)

type sim struct {
	log        *slog.Logger
	metrics    *metrics
	metricsOut io.Writer
	stdout     io.Writer
}

func doRun(ctx context.Context, s *sim, inst *instance.Instance, strategy, outFile string) error {
	r, err := s.run(inst, strategy)
	if err != nil {
		return err
	}

	if err := s.writeReport(outFile, r); err != nil {
		return fmt.Errorf("write report file failed: %w", err)
	}
	return s.dumpMetrics()
}

func doCompare(ctx context.Context, s *sim, inst *instance.Instance, strategies []string,
	parallel int, outFile string) error {

	reports := make([]instance.Report, len(strategies))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for k, strategy := range strategies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.run(inst, strategy)
			if err != nil {
				return err
			}
			reports[k] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	best := 0
	for k, r := range reports {
		if r.Utility > reports[best].Utility {
			best = k
		}
	}
	if len(reports) > 0 {
		s.log.Info("best strategy", "instance", inst.Name,
			"strategy", reports[best].Strategy, "utility", reports[best].Utility)
	}

	if err := s.writeReport(outFile, reports); err != nil {
		return fmt.Errorf("write report file failed: %w", err)
	}
	return s.dumpMetrics()
}

// run optimizes a fresh model of inst, so concurrent runs share no state.
func (s *sim) run(inst *instance.Instance, strategy string) (instance.Report, error) {
	log := s.log.With("instance", inst.Name, "strategy", strategy)

	r, err := inst.Run(strategy, log)
	if err != nil {
		return instance.Report{}, err
	}

	log.Info("optimized",
		"run_id", r.RunID,
		"utility", r.Utility,
		"assigned", r.Matching.Assigned(),
		"evaluations", r.Evaluations,
		"elapsed", r.Elapsed)
	if s.metrics != nil {
		s.metrics.observe(r)
	}
	return r, nil
}

func (s *sim) writeReport(file string, v any) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "   ")
	if err := encoder.Encode(v); err != nil {
		return err
	}

	if file == "" {
		out := s.stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(file, buf.Bytes(), 0644)
}

func (s *sim) dumpMetrics() error {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.write(s.metricsOut)
}
