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
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CombinedEstimates is the verbose result of the combined CKiD U25
// estimator, one value per observation in each column.
type CombinedEstimates struct {
	Creatinine []float64
	Cystatin   []float64
	Mean       []float64
}

// CKiDU25Creatinine estimates GFR from serum creatinine using the
// age/sex-banded CKiD U25 equation. Creatinine is expected in mg/dl, height
// in cm; the equation has no SI variant. Results are in ml/min/1.73m².
//
// The equation is validated for ages 1 to 25. Ages outside that range still
// produce an estimate from the nearest coefficient band, accompanied by a
// warning for the whole batch.
func CKiDU25Creatinine(creatinine, age []float64, sex []Sex, height []float64, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"creatinine", len(creatinine)},
		namedVector{"age", len(age)},
		namedVector{"sex", len(sex)},
		namedVector{"height", len(height)},
	)
	if err != nil {
		return nil, err
	}

	ages := shiftedAges(age, cfg.offset)
	cfg.warnAgeRange(ages)
	cfg.warnUnknownSex(sex)

	out := make([]float64, n)
	for i := range out {
		k := ckidCreatinineCoefficient(pick(ages, i), pickSex(sex, i))
		out[i] = round1(k * (pick(height, i) / 100) / pick(creatinine, i))
	}
	return out, nil
}

// CKiDU25Cystatin estimates GFR from serum cystatin C using the
// age/sex-banded CKiD U25 equation. Cystatin C is expected in mg/L; the
// equation has no SI variant and takes no height. Results are in
// ml/min/1.73m².
//
// The same age 1 to 25 validation range as CKiDU25Creatinine applies.
func CKiDU25Cystatin(cystatin, age []float64, sex []Sex, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"cystatin", len(cystatin)},
		namedVector{"age", len(age)},
		namedVector{"sex", len(sex)},
	)
	if err != nil {
		return nil, err
	}

	ages := shiftedAges(age, cfg.offset)
	cfg.warnAgeRange(ages)
	cfg.warnUnknownSex(sex)

	out := make([]float64, n)
	for i := range out {
		k := ckidCystatinCoefficient(pick(ages, i), pickSex(sex, i))
		out[i] = round1(k / pick(cystatin, i))
	}
	return out, nil
}

// CKiDU25Combined averages the creatinine-based and cystatin-based CKiD U25
// estimates, which approximates measured GFR better than either alone. The
// sub-estimates are rounded to one decimal place before averaging and the
// mean is rounded again.
func CKiDU25Combined(cystatin, creatinine, age []float64, sex []Sex, height []float64, opts ...Option) ([]float64, error) {
	estimates, err := CKiDU25CombinedVerbose(cystatin, creatinine, age, sex, height, opts...)
	if err != nil {
		return nil, err
	}
	return estimates.Mean, nil
}

// CKiDU25CombinedVerbose returns the creatinine-based and cystatin-based
// CKiD U25 estimates next to their mean instead of the mean alone.
func CKiDU25CombinedVerbose(cystatin, creatinine, age []float64, sex []Sex, height []float64, opts ...Option) (*CombinedEstimates, error) {
	creatinineBased, err := CKiDU25Creatinine(creatinine, age, sex, height, opts...)
	if err != nil {
		return nil, err
	}
	// Both sub-estimators see the same age and sex vectors, so the second
	// call would only repeat the warnings the first one already emitted.
	cystatinBased, err := CKiDU25Cystatin(cystatin, age, sex, append(opts, WithWarningOutput(io.Discard))...)
	if err != nil {
		return nil, err
	}
	n, err := broadcastLength(
		namedVector{"creatinine-based estimate", len(creatinineBased)},
		namedVector{"cystatin-based estimate", len(cystatinBased)},
	)
	if err != nil {
		return nil, err
	}

	mean := make([]float64, n)
	for i := range mean {
		mean[i] = round1((pick(creatinineBased, i) + pick(cystatinBased, i)) / 2)
	}
	return &CombinedEstimates{
		Creatinine: expand(creatinineBased, n),
		Cystatin:   expand(cystatinBased, n),
		Mean:       mean,
	}, nil
}

// ckidCreatinineCoefficient selects the CKiD U25 creatinine coefficient for
// one observation. Sexes other than F use the male coefficients.
func ckidCreatinineCoefficient(age float64, sex Sex) float64 {
	if sex == Female {
		switch {
		case age < 12:
			return 36.1 * math.Pow(1.008, age-12)
		case age < 18:
			return 36.1 * math.Pow(1.023, age-12)
		default:
			return 41.4
		}
	}
	switch {
	case age < 12:
		return 39 * math.Pow(1.008, age-12)
	case age < 18:
		return 39 * math.Pow(1.045, age-12)
	default:
		return 50.8
	}
}

// ckidCystatinCoefficient selects the CKiD U25 cystatin C coefficient for
// one observation. The band boundaries and the exponent offsets differ by
// sex: female bands pivot around age 12, male bands around age 15.
func ckidCystatinCoefficient(age float64, sex Sex) float64 {
	if sex == Female {
		switch {
		case age < 12:
			return 79.9 * math.Pow(1.004, age-12)
		case age < 18:
			return 79.9 * math.Pow(0.974, age-12)
		default:
			return 77.1
		}
	}
	switch {
	case age < 15:
		return 87.2 * math.Pow(1.011, age-15)
	case age < 18:
		return 87.2 * math.Pow(0.960, age-15)
	default:
		return 68.3
	}
}

// warnAgeRange emits one warning per batch when any age falls outside the
// validated 1 to 25 year range. The check runs over the batch min/max while
// coefficient selection stays per-observation, so out-of-range rows are
// still computed.
func (cfg *config) warnAgeRange(ages []float64) {
	if len(ages) == 0 {
		return
	}
	if floats.Min(ages) < 1 || floats.Max(ages) > 25 {
		fmt.Fprintln(cfg.warnOut, "Warning: age values outside the validated range of 1 to 25 years; results for those observations may be unreliable.")
	}
}

// warnUnknownSex emits one warning per batch when sex values outside F/M are
// supplied. Those observations fall through to the male coefficients.
func (cfg *config) warnUnknownSex(sex []Sex) {
	unknown := 0
	for _, s := range sex {
		if s != Female && s != Male {
			unknown++
		}
	}
	if unknown > 0 {
		fmt.Fprintf(cfg.warnOut, "Warning: %d sex value(s) are neither F nor M; male coefficients were applied to them.\n", unknown)
	}
}
