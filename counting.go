// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package placematch

// CountingModel wraps a model and counts its utility evaluations.
type CountingModel struct {
	Model
	evaluations int
}

func Counted(model Model) *CountingModel {
	return &CountingModel{Model: model}
}

func (c *CountingModel) Utility(matching Matching) (float64, error) {
	c.evaluations++
	return c.Model.Utility(matching)
}

func (c *CountingModel) Evaluations() int {
	return c.evaluations
}

func (c *CountingModel) Unwrap() Model {
	return c.Model
}
