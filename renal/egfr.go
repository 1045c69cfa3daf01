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
	"math"
)

// CKDEPI estimates GFR from serum creatinine using the 2009 CKD-EPI
// equation, in ml/min/1.73m². Creatinine is taken in µmol/l (SI, the
// default) or mg/dl (US). black applies the 1.159 ethnicity factor.
func CKDEPI(creatinine, age []float64, sex []Sex, black []bool, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"creatinine", len(creatinine)},
		namedVector{"age", len(age)},
		namedVector{"sex", len(sex)},
		namedVector{"ethnicity", len(black)},
	)
	if err != nil {
		return nil, err
	}

	ages := shiftedAges(age, cfg.offset)
	cfg.warnUnknownSex(sex)

	out := make([]float64, n)
	for i := range out {
		creat := creatinineToMgdl(pick(creatinine, i), cfg.units, creatinineDivisorCKDEPI)
		a := pick(ages, i)

		var egfr float64
		if pickSex(sex, i) == Female {
			if creat <= 0.7 {
				egfr = 144 * math.Pow(creat/0.7, -0.329) * math.Pow(0.993, a)
			} else {
				egfr = 144 * math.Pow(creat/0.7, -1.209) * math.Pow(0.993, a)
			}
		} else {
			if creat <= 0.9 {
				egfr = 141 * math.Pow(creat/0.9, -0.411) * math.Pow(0.993, a)
			} else {
				egfr = 141 * math.Pow(creat/0.9, -1.209) * math.Pow(0.993, a)
			}
		}
		if pickBool(black, i) {
			egfr *= 1.159
		}
		out[i] = round1(egfr)
	}
	return out, nil
}

// MDRD estimates GFR from serum creatinine using the four-variable MDRD
// equation with the 175 IDMS-traceable constant, in ml/min/1.73m².
// Creatinine is taken in µmol/l (SI, the default) or mg/dl (US). black
// applies the 1.212 ethnicity factor.
func MDRD(creatinine, age []float64, sex []Sex, black []bool, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"creatinine", len(creatinine)},
		namedVector{"age", len(age)},
		namedVector{"sex", len(sex)},
		namedVector{"ethnicity", len(black)},
	)
	if err != nil {
		return nil, err
	}

	ages := shiftedAges(age, cfg.offset)
	cfg.warnUnknownSex(sex)

	out := make([]float64, n)
	for i := range out {
		creat := creatinineToMgdl(pick(creatinine, i), cfg.units, creatinineDivisor)
		egfr := 175 * math.Pow(creat, -1.154) * math.Pow(pick(ages, i), -0.203)
		if pickSex(sex, i) == Female {
			egfr *= 0.742
		}
		if pickBool(black, i) {
			egfr *= 1.212
		}
		out[i] = round1(egfr)
	}
	return out, nil
}

// Schwartz estimates pediatric GFR with the bedside Schwartz equation
// 0.413 × height / creatinine, in ml/min/1.73m². Height is in cm,
// creatinine in µmol/l (SI, the default) or mg/dl (US).
func Schwartz(creatinine, height []float64, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"creatinine", len(creatinine)},
		namedVector{"height", len(height)},
	)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		creat := creatinineToMgdl(pick(creatinine, i), cfg.units, creatinineDivisor)
		out[i] = round1(0.413 * pick(height, i) / creat)
	}
	return out, nil
}
