// Copyright 2019 - 2025 The Samply Community
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package renal

import (
	"io"
	"os"
)

// Option configures a single formula invocation.
type Option func(*config)

type config struct {
	units   UnitSystem
	offset  float64
	warnOut io.Writer
}

// WithUnits sets the unit system concentration inputs are given in.
// The default is SI.
func WithUnits(units UnitSystem) Option {
	return func(cfg *config) {
		cfg.units = units
	}
}

// WithOffset adds the given number of years to every age value, for serial
// or follow-up measurements taken after the baseline demographics were
// recorded. Negative offsets are ignored.
func WithOffset(years float64) Option {
	return func(cfg *config) {
		if years > 0 {
			cfg.offset = years
		}
	}
}

// WithWarningOutput redirects informational warnings, which go to stderr by
// default. Warnings never interrupt a computation.
func WithWarningOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.warnOut = w
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{units: SI, warnOut: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
