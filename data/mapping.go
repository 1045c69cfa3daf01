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

// Package data reads cohorts of patient records from tabular CSV files and
// writes estimate result tables back out.
package data

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/samply/renalctl/renal"
)

// ColumnMapping maps the logical measurement fields onto the column names of
// a concrete cohort CSV file and fixes the unit system the whole cohort is
// recorded in. An empty column name marks the field as absent.
type ColumnMapping struct {
	Units   renal.UnitSystem `yaml:"units"`
	Columns struct {
		ID         string `yaml:"id"`
		Creatinine string `yaml:"creatinine"`
		Cystatin   string `yaml:"cystatin"`
		Age        string `yaml:"age"`
		Sex        string `yaml:"sex"`
		Height     string `yaml:"height"`
		Weight     string `yaml:"weight"`
		Ethnicity  string `yaml:"ethnicity"`
	} `yaml:"columns"`
}

// DefaultColumnMapping returns the mapping for cohort files that already use
// the logical field names as headers, with values in US units.
func DefaultColumnMapping() ColumnMapping {
	m := ColumnMapping{Units: renal.US}
	m.Columns.ID = "id"
	m.Columns.Creatinine = "creatinine"
	m.Columns.Cystatin = "cystatin"
	m.Columns.Age = "age"
	m.Columns.Sex = "sex"
	m.Columns.Height = "height"
	m.Columns.Weight = "weight"
	m.Columns.Ethnicity = "ethnicity"
	return m
}

// ReadColumnMapping parses a column mapping given in YAML form.
func ReadColumnMapping(b []byte) (ColumnMapping, error) {
	mapping := DefaultColumnMapping()
	if err := yaml.Unmarshal(b, &mapping); err != nil {
		return ColumnMapping{}, fmt.Errorf("error while parsing the column mapping: %v", err)
	}
	return mapping, nil
}
