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

package cmd

import (
	"fmt"
	"sort"

	"github.com/samply/renalctl/data"
	"github.com/samply/renalctl/renal"
)

const egfrUnit = "mL/min/{1.73_m2}"

// formula describes one estimator applicable to a cohort: how to compute its
// result columns and how the primary result is coded in FHIR exports.
type formula struct {
	name         string
	description  string
	loincCode    string
	loincDisplay string
	unit         string
	compute      func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error)
}

var formulas = map[string]formula{
	"ckid-u25-creatinine": {
		name:         "ckid-u25-creatinine",
		description:  "CKiD U25 pediatric eGFR from serum creatinine (ages 1-25)",
		loincCode:    "98979-8",
		loincDisplay: "Glomerular filtration rate predicted",
		unit:         egfrUnit,
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "creatinine", "age", "sex", "height"); err != nil {
				return nil, err
			}
			egfr, err := renal.CKiDU25Creatinine(c.Creatinine, c.Age, c.Sex, c.Height, opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "egfr", Values: egfr}}, nil
		},
	},
	"ckid-u25-cystatin": {
		name:         "ckid-u25-cystatin",
		description:  "CKiD U25 pediatric eGFR from serum cystatin C (ages 1-25)",
		loincCode:    "98979-8",
		loincDisplay: "Glomerular filtration rate predicted",
		unit:         egfrUnit,
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "cystatin", "age", "sex"); err != nil {
				return nil, err
			}
			egfr, err := renal.CKiDU25Cystatin(c.Cystatin, c.Age, c.Sex, opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "egfr", Values: egfr}}, nil
		},
	},
	"ckid-u25-combined": {
		name:         "ckid-u25-combined",
		description:  "Average of the creatinine- and cystatin-based CKiD U25 estimates",
		loincCode:    "98979-8",
		loincDisplay: "Glomerular filtration rate predicted",
		unit:         egfrUnit,
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "cystatin", "creatinine", "age", "sex", "height"); err != nil {
				return nil, err
			}
			if verbose {
				estimates, err := renal.CKiDU25CombinedVerbose(c.Cystatin, c.Creatinine, c.Age, c.Sex, c.Height, opts...)
				if err != nil {
					return nil, err
				}
				return []data.ResultColumn{
					{Name: "egfr_creatinine", Values: estimates.Creatinine},
					{Name: "egfr_cystatin", Values: estimates.Cystatin},
					{Name: "egfr", Values: estimates.Mean},
				}, nil
			}
			egfr, err := renal.CKiDU25Combined(c.Cystatin, c.Creatinine, c.Age, c.Sex, c.Height, opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "egfr", Values: egfr}}, nil
		},
	},
	"ckd-epi": {
		name:         "ckd-epi",
		description:  "CKD-EPI 2009 adult eGFR from serum creatinine",
		loincCode:    "62238-1",
		loincDisplay: "Glomerular filtration rate predicted by CKD-EPI",
		unit:         egfrUnit,
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "creatinine", "age", "sex"); err != nil {
				return nil, err
			}
			egfr, err := renal.CKDEPI(c.Creatinine, c.Age, c.Sex, ethnicity(c), opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "egfr", Values: egfr}}, nil
		},
	},
	"mdrd": {
		name:         "mdrd",
		description:  "Four-variable MDRD adult eGFR from serum creatinine",
		loincCode:    "33914-3",
		loincDisplay: "Glomerular filtration rate predicted by MDRD",
		unit:         egfrUnit,
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "creatinine", "age", "sex"); err != nil {
				return nil, err
			}
			egfr, err := renal.MDRD(c.Creatinine, c.Age, c.Sex, ethnicity(c), opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "egfr", Values: egfr}}, nil
		},
	},
	"schwartz": {
		name:         "schwartz",
		description:  "Bedside Schwartz pediatric eGFR from serum creatinine and height",
		loincCode:    "98979-8",
		loincDisplay: "Glomerular filtration rate predicted",
		unit:         egfrUnit,
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "creatinine", "height"); err != nil {
				return nil, err
			}
			egfr, err := renal.Schwartz(c.Creatinine, c.Height, opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "egfr", Values: egfr}}, nil
		},
	},
	"cockcroft-gault": {
		name:         "cockcroft-gault",
		description:  "Cockcroft-Gault creatinine clearance from creatinine, age and weight",
		loincCode:    "35591-7",
		loincDisplay: "Creatinine renal clearance predicted by Cockcroft-Gault formula",
		unit:         "mL/min",
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "creatinine", "age", "weight", "sex"); err != nil {
				return nil, err
			}
			crcl, err := renal.CockcroftGault(c.Creatinine, c.Age, c.Weight, c.Sex, opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "crcl", Values: crcl}}, nil
		},
	},
	"ibw": {
		name:         "ibw",
		description:  "Devine ideal body weight from height and sex",
		loincCode:    "50064-5",
		loincDisplay: "Ideal body weight",
		unit:         "kg",
		compute: func(c *data.Cohort, opts []renal.Option) ([]data.ResultColumn, error) {
			if err := requireVectors(c, "height", "sex"); err != nil {
				return nil, err
			}
			ibw, err := renal.IdealBodyWeight(c.Height, c.Sex, opts...)
			if err != nil {
				return nil, err
			}
			return []data.ResultColumn{{Name: "ibw", Values: ibw}}, nil
		},
	},
}

// formulaNames returns the names of all supported formulas, sorted.
func formulaNames() []string {
	names := make([]string, 0, len(formulas))
	for name := range formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupFormula(name string) (formula, error) {
	f, ok := formulas[name]
	if !ok {
		return formula{}, fmt.Errorf("unknown formula %q, run `renalctl formulas` for the supported ones", name)
	}
	return f, nil
}

// requireVectors checks that the named measurement vectors were populated
// from the cohort CSV before a formula runs over them.
func requireVectors(c *data.Cohort, fields ...string) error {
	for _, field := range fields {
		var missing bool
		switch field {
		case "creatinine":
			missing = len(c.Creatinine) == 0
		case "cystatin":
			missing = len(c.Cystatin) == 0
		case "age":
			missing = len(c.Age) == 0
		case "sex":
			missing = len(c.Sex) == 0
		case "height":
			missing = len(c.Height) == 0
		case "weight":
			missing = len(c.Weight) == 0
		}
		if missing {
			return fmt.Errorf("the cohort has no %s values; check that the %s column is mapped and present", field, field)
		}
	}
	return nil
}

// ethnicity falls back to non-black when the cohort has no ethnicity column.
func ethnicity(c *data.Cohort) []bool {
	if len(c.Black) == 0 {
		return []bool{false}
	}
	return c.Black
}
