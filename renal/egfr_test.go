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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCKDEPI(t *testing.T) {
	type observation struct {
		creatinine, age float64
		sex             Sex
		black           bool
		units           UnitSystem
		expected        float64
	}
	observations := map[string]observation{
		"female at the low creatinine knot":         {creatinine: 0.7, age: 40, sex: Female, units: US, expected: 108.7},
		"male above the knot with ethnicity factor": {creatinine: 1.2, age: 60, sex: Male, black: true, units: US, expected: 75.7},
		"SI creatinine divided by 88.42":            {creatinine: 88.42, age: 40, sex: Female, units: SI, expected: 70.6},
	}

	for name, o := range observations {
		t.Run(name, func(t *testing.T) {
			result, err := CKDEPI([]float64{o.creatinine}, []float64{o.age}, []Sex{o.sex}, []bool{o.black},
				WithUnits(o.units))

			require.NoError(t, err)
			assert.Equal(t, []float64{o.expected}, result)
		})
	}
}

func TestCKDEPI_unitsDefaultToSI(t *testing.T) {
	si, err := CKDEPI([]float64{88.42}, []float64{40}, []Sex{Female}, []bool{false})
	require.NoError(t, err)
	explicit, err := CKDEPI([]float64{88.42}, []float64{40}, []Sex{Female}, []bool{false}, WithUnits(SI))
	require.NoError(t, err)

	assert.Equal(t, explicit, si)
}

func TestCKDEPI_unknownUnitsPassThroughUnconverted(t *testing.T) {
	unknown, err := CKDEPI([]float64{0.7}, []float64{40}, []Sex{Female}, []bool{false}, WithUnits("imperial"))
	require.NoError(t, err)
	us, err := CKDEPI([]float64{0.7}, []float64{40}, []Sex{Female}, []bool{false}, WithUnits(US))
	require.NoError(t, err)

	assert.Equal(t, us, unknown)
}

func TestCKDEPI_offsetShiftsAge(t *testing.T) {
	shifted, err := CKDEPI([]float64{0.7}, []float64{38}, []Sex{Female}, []bool{false},
		WithUnits(US), WithOffset(2))
	require.NoError(t, err)

	assert.Equal(t, []float64{108.7}, shifted)
}

func TestMDRD(t *testing.T) {
	type observation struct {
		creatinine, age float64
		sex             Sex
		black           bool
		units           UnitSystem
		expected        float64
	}
	observations := map[string]observation{
		"male with US units":             {creatinine: 1, age: 50, sex: Male, units: US, expected: 79.1},
		"female black with SI units":     {creatinine: 88.4, age: 50, sex: Female, black: true, units: SI, expected: 71.1},
		"SI creatinine divided by 88.4":  {creatinine: 88.4, age: 50, sex: Male, units: SI, expected: 79.1},
		"unknown units treated as mg/dl": {creatinine: 1, age: 50, sex: Male, units: "mol", expected: 79.1},
	}

	for name, o := range observations {
		t.Run(name, func(t *testing.T) {
			result, err := MDRD([]float64{o.creatinine}, []float64{o.age}, []Sex{o.sex}, []bool{o.black},
				WithUnits(o.units))

			require.NoError(t, err)
			assert.Equal(t, []float64{o.expected}, result)
		})
	}
}

func TestMDRD_mismatchedLengths(t *testing.T) {
	_, err := MDRD([]float64{1, 2}, []float64{50, 60, 70}, []Sex{Male}, []bool{false})

	require.Error(t, err)
	assert.Equal(t, "mismatched vector lengths: creatinine has 2 values, age has 3 values", err.Error())
}

func TestSchwartz(t *testing.T) {
	type observation struct {
		creatinine, height float64
		units              UnitSystem
		expected           float64
	}
	observations := map[string]observation{
		"US units": {creatinine: 0.5, height: 100, units: US, expected: 82.6},
		"SI units": {creatinine: 44.2, height: 100, units: SI, expected: 82.6},
	}

	for name, o := range observations {
		t.Run(name, func(t *testing.T) {
			result, err := Schwartz([]float64{o.creatinine}, []float64{o.height}, WithUnits(o.units))

			require.NoError(t, err)
			assert.Equal(t, []float64{o.expected}, result)
		})
	}
}

func TestSchwartz_broadcastsOneHeightAcrossMeasurements(t *testing.T) {
	result, err := Schwartz([]float64{0.4, 0.5, 0.6}, []float64{100}, WithUnits(US))

	require.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, 82.6, result[1])
}
