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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samply/renalctl/renal"
)

// Cohort holds the measurement vectors of one patient cohort, one entry per
// observation in every populated slice. Fields whose column is not mapped
// stay nil.
type Cohort struct {
	IDs        []string
	Creatinine []float64
	Cystatin   []float64
	Age        []float64
	Height     []float64
	Weight     []float64
	Sex        []renal.Sex
	Black      []bool
	Units      renal.UnitSystem
}

// Len returns the observation count.
func (c *Cohort) Len() int {
	return len(c.IDs)
}

// Slice returns the observations in the half-open range [i, j) as a cohort
// sharing the underlying vectors. Used to partition a batch across workers.
func (c *Cohort) Slice(i, j int) *Cohort {
	sliced := &Cohort{IDs: c.IDs[i:j], Units: c.Units}
	if c.Creatinine != nil {
		sliced.Creatinine = c.Creatinine[i:j]
	}
	if c.Cystatin != nil {
		sliced.Cystatin = c.Cystatin[i:j]
	}
	if c.Age != nil {
		sliced.Age = c.Age[i:j]
	}
	if c.Height != nil {
		sliced.Height = c.Height[i:j]
	}
	if c.Weight != nil {
		sliced.Weight = c.Weight[i:j]
	}
	if c.Sex != nil {
		sliced.Sex = c.Sex[i:j]
	}
	if c.Black != nil {
		sliced.Black = c.Black[i:j]
	}
	return sliced
}

// ReadCohort reads a cohort from CSV with a header row, using mapping to
// locate the measurement columns. Mapped columns that are absent from the
// header leave the corresponding field nil, so one mapping can serve cohort
// files of varying completeness. Cells of present columns have to parse as
// numbers; violations are reported with the row they occur in. Rows are kept
// in file order.
func ReadCohort(r io.Reader, mapping ColumnMapping) (*Cohort, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error while reading the cohort CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("the cohort CSV has no header row")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[name] = i
	}

	indexOf := func(column string) int {
		if column == "" {
			return -1
		}
		if idx, ok := header[column]; ok {
			return idx
		}
		return -1
	}

	idIdx := indexOf(mapping.Columns.ID)
	creatinineIdx := indexOf(mapping.Columns.Creatinine)
	cystatinIdx := indexOf(mapping.Columns.Cystatin)
	ageIdx := indexOf(mapping.Columns.Age)
	sexIdx := indexOf(mapping.Columns.Sex)
	heightIdx := indexOf(mapping.Columns.Height)
	weightIdx := indexOf(mapping.Columns.Weight)
	ethnicityIdx := indexOf(mapping.Columns.Ethnicity)

	cohort := &Cohort{Units: mapping.Units}
	for rowNum, record := range records[1:] {
		if idIdx >= 0 {
			cohort.IDs = append(cohort.IDs, record[idIdx])
		} else {
			cohort.IDs = append(cohort.IDs, strconv.Itoa(rowNum+1))
		}
		if sexIdx >= 0 {
			cohort.Sex = append(cohort.Sex, renal.Sex(record[sexIdx]))
		}
		if ethnicityIdx >= 0 {
			cohort.Black = append(cohort.Black, strings.EqualFold(record[ethnicityIdx], "black"))
		}

		for _, col := range []struct {
			field string
			idx   int
			dst   *[]float64
		}{
			{"creatinine", creatinineIdx, &cohort.Creatinine},
			{"cystatin", cystatinIdx, &cohort.Cystatin},
			{"age", ageIdx, &cohort.Age},
			{"height", heightIdx, &cohort.Height},
			{"weight", weightIdx, &cohort.Weight},
		} {
			if col.idx < 0 {
				continue
			}
			v, err := strconv.ParseFloat(record[col.idx], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s value %q", rowNum+2, col.field, record[col.idx])
			}
			*col.dst = append(*col.dst, v)
		}
	}
	return cohort, nil
}

// ResultColumn is one named column of an estimate result table.
type ResultColumn struct {
	Name   string
	Values []float64
}

// WriteResults writes a result table as CSV with an id column followed by the
// given columns, every value formatted with one decimal place. All columns
// have to match the id count.
func WriteResults(w io.Writer, ids []string, columns []ResultColumn) error {
	for _, col := range columns {
		if len(col.Values) != len(ids) {
			return fmt.Errorf("the %s column has %d values for %d ids", col.Name, len(col.Values), len(ids))
		}
	}

	out := csv.NewWriter(w)
	header := make([]string, 0, len(columns)+1)
	header = append(header, "id")
	for _, col := range columns {
		header = append(header, col.Name)
	}
	if err := out.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, id := range ids {
		row[0] = id
		for j, col := range columns {
			row[j+1] = strconv.FormatFloat(col.Values[i], 'f', 1, 64)
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
