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
	"os"

	"github.com/samply/renalctl/data"
	"github.com/samply/renalctl/renal"
	"github.com/spf13/cobra"
)

var units string
var mappingFile string
var noProgress bool

// readMapping loads the column mapping, starting from the default mapping
// and applying first the mapping file and then the --units flag on top.
func readMapping() (data.ColumnMapping, error) {
	mapping := data.DefaultColumnMapping()
	if mappingFile != "" {
		mappingBytes, err := os.ReadFile(mappingFile)
		if err != nil {
			return data.ColumnMapping{}, fmt.Errorf("could not read the mapping file %s: %v", mappingFile, err)
		}
		mapping, err = data.ReadColumnMapping(mappingBytes)
		if err != nil {
			return data.ColumnMapping{}, err
		}
	}
	if units != "" {
		mapping.Units = renal.UnitSystem(units)
	}
	return mapping, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "renalctl",
	Short: "Estimate Kidney Function over Tabular Patient Datasets",
	Long: `renalctl applies closed-form kidney function formulas like CKiD U25,
CKD-EPI, MDRD, Schwartz and Cockcroft-Gault to whole CSV cohorts of
patient records.

Currently you can estimate into a result CSV, export estimates as a FHIR®
bundle of Observation resources and list the supported formulas.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&units, "units", "", "unit system of concentration inputs (SI or US), overrides the mapping file")
	rootCmd.PersistentFlags().StringVarP(&mappingFile, "mapping", "m", "", "YAML file mapping measurement fields to CSV columns")
	rootCmd.PersistentFlags().BoolVarP(&noProgress, "no-progress", "", false, "don't show progress bar")
}
