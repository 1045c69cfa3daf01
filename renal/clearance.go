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

// CockcroftGault estimates creatinine clearance in ml/min from serum
// creatinine, age, actual body weight in kg and sex. Creatinine is taken in
// µmol/l (SI, the default) or mg/dl (US). Unlike the eGFR equations the
// result is not indexed to body surface area.
func CockcroftGault(creatinine, age, weight []float64, sex []Sex, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"creatinine", len(creatinine)},
		namedVector{"age", len(age)},
		namedVector{"weight", len(weight)},
		namedVector{"sex", len(sex)},
	)
	if err != nil {
		return nil, err
	}

	ages := shiftedAges(age, cfg.offset)
	cfg.warnUnknownSex(sex)

	out := make([]float64, n)
	for i := range out {
		creat := creatinineToMgdl(pick(creatinine, i), cfg.units, creatinineDivisor)
		crcl := (140 - pick(ages, i)) * pick(weight, i) / (72 * creat)
		if pickSex(sex, i) == Female {
			crcl *= 0.85
		}
		out[i] = round1(crcl)
	}
	return out, nil
}

// IdealBodyWeight returns the Devine ideal body weight in kg from height in
// cm: 50 kg (male) resp. 45.5 kg (female) plus 0.9 kg per cm above 152 cm.
func IdealBodyWeight(height []float64, sex []Sex, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	n, err := broadcastLength(
		namedVector{"height", len(height)},
		namedVector{"sex", len(sex)},
	)
	if err != nil {
		return nil, err
	}

	cfg.warnUnknownSex(sex)

	out := make([]float64, n)
	for i := range out {
		base := 50.0
		if pickSex(sex, i) == Female {
			base = 45.5
		}
		out[i] = round1(base + 0.9*(pick(height, i)-152))
	}
	return out, nil
}
