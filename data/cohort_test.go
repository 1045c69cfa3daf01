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

package data

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samply/renalctl/renal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cohortCSV = `patient,scr,cysc,age_years,sex,height_cm
p-1,0.7,1.0,18,F,132
p-2,1.1,1.4,14,M,158
`

func renamedMapping() ColumnMapping {
	mapping := DefaultColumnMapping()
	mapping.Columns.ID = "patient"
	mapping.Columns.Creatinine = "scr"
	mapping.Columns.Cystatin = "cysc"
	mapping.Columns.Age = "age_years"
	mapping.Columns.Sex = "sex"
	mapping.Columns.Height = "height_cm"
	mapping.Columns.Weight = ""
	return mapping
}

func TestReadCohort(t *testing.T) {
	cohort, err := ReadCohort(strings.NewReader(cohortCSV), renamedMapping())

	require.NoError(t, err)
	assert.Equal(t, 2, cohort.Len())
	assert.Equal(t, []string{"p-1", "p-2"}, cohort.IDs)
	assert.Equal(t, []float64{0.7, 1.1}, cohort.Creatinine)
	assert.Equal(t, []float64{1.0, 1.4}, cohort.Cystatin)
	assert.Equal(t, []float64{18, 14}, cohort.Age)
	assert.Equal(t, []float64{132, 158}, cohort.Height)
	assert.Equal(t, []renal.Sex{renal.Female, renal.Male}, cohort.Sex)
	assert.Nil(t, cohort.Weight)
	assert.Equal(t, renal.US, cohort.Units)
}

func TestReadCohort_numbersRowsWithoutIDColumn(t *testing.T) {
	mapping := renamedMapping()
	mapping.Columns.ID = ""

	cohort, err := ReadCohort(strings.NewReader(cohortCSV), mapping)

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, cohort.IDs)
}

func TestReadCohort_absentColumnLeavesFieldNil(t *testing.T) {
	mapping := renamedMapping()
	mapping.Columns.Creatinine = "serum_creatinine"

	cohort, err := ReadCohort(strings.NewReader(cohortCSV), mapping)

	require.NoError(t, err)
	assert.Nil(t, cohort.Creatinine)
	assert.Equal(t, []float64{1.0, 1.4}, cohort.Cystatin)
}

func TestReadCohort_ethnicityColumn(t *testing.T) {
	csv := `patient,scr,cysc,age_years,sex,height_cm,eth
p-1,0.7,1.0,18,F,132,Black
p-2,1.1,1.4,14,M,158,other
`
	mapping := renamedMapping()
	mapping.Columns.Ethnicity = "eth"

	cohort, err := ReadCohort(strings.NewReader(csv), mapping)

	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, cohort.Black)
}

func TestCohortSlice(t *testing.T) {
	cohort, err := ReadCohort(strings.NewReader(cohortCSV), renamedMapping())
	require.NoError(t, err)

	sliced := cohort.Slice(1, 2)

	assert.Equal(t, 1, sliced.Len())
	assert.Equal(t, []string{"p-2"}, sliced.IDs)
	assert.Equal(t, []float64{1.1}, sliced.Creatinine)
	assert.Nil(t, sliced.Weight)
	assert.Equal(t, renal.US, sliced.Units)
}

func TestReadCohort_invalidNumber(t *testing.T) {
	csv := `patient,scr,cysc,age_years,sex,height_cm
p-1,n/a,1.0,18,F,132
`
	_, err := ReadCohort(strings.NewReader(csv), renamedMapping())

	require.Error(t, err)
	assert.Equal(t, `row 2: invalid creatinine value "n/a"`, err.Error())
}

func TestReadCohort_emptyInput(t *testing.T) {
	_, err := ReadCohort(strings.NewReader(""), renamedMapping())

	require.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	buf := bytes.Buffer{}

	err := WriteResults(&buf, []string{"p-1", "p-2"}, []ResultColumn{
		{Name: "egfr_creatinine", Values: []float64{78.1, 55}},
		{Name: "egfr_cystatin", Values: []float64{77.1, 60.2}},
	})

	require.NoError(t, err)
	assert.Equal(t, `id,egfr_creatinine,egfr_cystatin
p-1,78.1,77.1
p-2,55.0,60.2
`, buf.String())
}

func TestWriteResults_columnLengthMismatch(t *testing.T) {
	err := WriteResults(&bytes.Buffer{}, []string{"p-1", "p-2"}, []ResultColumn{
		{Name: "egfr", Values: []float64{78.1}},
	})

	require.Error(t, err)
	assert.Equal(t, "the egfr column has 1 values for 2 ids", err.Error())
}

func FuzzReadCohort(f *testing.F) {
	f.Add([]byte(cohortCSV))
	f.Add([]byte("patient,scr\np-1,"))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, b []byte) {
		cohort, err := ReadCohort(bytes.NewReader(b), renamedMapping())
		if err != nil {
			return
		}

		if cohort.Creatinine != nil && len(cohort.Creatinine) != cohort.Len() {
			t.Errorf("creatinine has %d values for %d observations", len(cohort.Creatinine), cohort.Len())
		}
		if cohort.Sex != nil && len(cohort.Sex) != cohort.Len() {
			t.Errorf("sex has %d values for %d observations", len(cohort.Sex), cohort.Len())
		}
	})
}
