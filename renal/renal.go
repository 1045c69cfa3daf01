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

// Package renal implements closed-form clinical formulas that estimate kidney
// function from laboratory and demographic measurements.
//
// Every formula is a pure function over same-length (or length-1, broadcast)
// input vectors and returns one estimate per observation, rounded to one
// decimal place. There is no retained state between calls: identical inputs
// always produce identical outputs.
package renal

import (
	"math"
)

// Sex is the per-observation sex indicator used for coefficient selection.
type Sex string

const (
	Female Sex = "F"
	Male   Sex = "M"
)

// UnitSystem selects how concentration inputs are interpreted, either
// µmol/l resp. mg/L (SI) or mg/dl (US).
type UnitSystem string

const (
	SI UnitSystem = "SI"
	US UnitSystem = "US"
)

// Molar-mass derived divisors converting µmol/l creatinine to mg/dl. The
// CKD-EPI equation traditionally carries the 88.42 variant while the other
// creatinine formulas use 88.4. Both are kept per-formula instead of being
// unified.
const (
	creatinineDivisorCKDEPI = 88.42
	creatinineDivisor       = 88.4
)

// creatinineToMgdl returns the creatinine value in mg/dl. Only the SI tag
// triggers a conversion; any other tag leaves the value untouched.
func creatinineToMgdl(value float64, units UnitSystem, divisor float64) float64 {
	if units == SI {
		return value / divisor
	}
	return value
}

// round1 rounds to one decimal place, the precision all estimates are
// reported in.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
