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
	"encoding/json"
	"fmt"
	"io"
	"os"

	fm "github.com/samply/golang-fhir-models/fhir-models/fhir"
	"github.com/samply/renalctl/data"
	"github.com/samply/renalctl/fhir"
	"github.com/samply/renalctl/util"
	"github.com/spf13/cobra"
)

var exportFhirCmd = &cobra.Command{
	Use:   "export-fhir [cohort-file]",
	Short: "Export estimates as a FHIR® bundle of Observations",
	Long: `Applies the chosen formula to a CSV cohort like the estimate command and
emits the results as a collection bundle of LOINC-coded Observation
resources, one per patient record, ready for upload to a FHIR server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := lookupFormula(formulaName)
		if err != nil {
			return err
		}

		cohort, err := readCohortFile(args[0])
		if err != nil {
			return err
		}

		bundleOut := io.Writer(os.Stdout)
		if outputFile != "" {
			file, err := util.CreateOutputFile(outputFile)
			if err != nil {
				return err
			}
			defer file.Close()
			bundleOut = file
		}

		return exportCohort(f, cohort, bundleOut, os.Stderr)
	},
}

// exportCohort evaluates the formula over the cohort and writes the results
// to bundleOut as an indented collection bundle, one Observation per record.
// Warnings collected during the evaluation go to warningOut.
func exportCohort(f formula, cohort *data.Cohort, bundleOut, warningOut io.Writer) error {
	columns, warnings, err := evaluateCohort(f, cohort)
	if err != nil {
		return err
	}
	printWarnings(warningOut, warnings)

	// The primary estimate is the last column, which for the verbose
	// combined estimator is the averaged one.
	primary := columns[len(columns)-1]
	observations := make([]fm.Observation, 0, cohort.Len())
	for i, id := range cohort.IDs {
		observations = append(observations,
			fhir.ResultObservation(id, f.loincCode, f.loincDisplay, f.description, f.unit, primary.Values[i]))
	}

	bundle, err := fhir.CollectionBundle(observations)
	if err != nil {
		return err
	}

	bundleBytes, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(bundleOut, string(bundleBytes))
	return err
}

func init() {
	rootCmd.AddCommand(exportFhirCmd)

	exportFhirCmd.Flags().StringVarP(&formulaName, "formula", "f", "ckid-u25-combined", "formula to apply")
	exportFhirCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the bundle to this file instead of stdout")
	exportFhirCmd.Flags().Float64Var(&ageOffset, "offset", 0, "years added to every age, for follow-up measurements")
	exportFhirCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "number of concurrent workers")
}
