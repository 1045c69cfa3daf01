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
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samply/renalctl/data"
	"github.com/samply/renalctl/renal"
	"github.com/samply/renalctl/util"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var formulaName string
var outputFile string
var ageOffset float64
var verbose bool
var concurrency int

// Rows per worker chunk. Each chunk is an independent sub-batch, so workers
// need no coordination beyond reassembly in original order.
const chunkSize = 1024

func readCohortFile(filename string) (*data.Cohort, error) {
	mapping, err := readMapping()
	if err != nil {
		return nil, err
	}

	cohortFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open the cohort file %s: %v", filename, err)
	}
	defer cohortFile.Close()

	cohort, err := data.ReadCohort(cohortFile, mapping)
	if err != nil {
		return nil, err
	}
	if cohort.Len() == 0 {
		return nil, fmt.Errorf("the cohort file %s has no observations", filename)
	}
	return cohort, nil
}

// evaluateCohort runs the formula over the cohort, partitioned into chunks
// that are computed by up to concurrency workers. Results come back in
// original row order; warnings are deduplicated across chunks.
func evaluateCohort(f formula, cohort *data.Cohort) ([]data.ResultColumn, []string, error) {
	n := cohort.Len()
	chunkCount := (n + chunkSize - 1) / chunkSize

	progressOut := io.Writer(os.Stderr)
	if noProgress {
		progressOut = io.Discard
	}
	progress := mpb.New(mpb.WithOutput(progressOut))
	bar := progress.AddBar(int64(chunkCount),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(decor.Name(f.name+" ")),
		mpb.AppendDecorators(decor.Percentage()),
	)

	chunkResults := make([][]data.ResultColumn, chunkCount)
	chunkErrs := make([]error, chunkCount)
	warningBufs := make([]bytes.Buffer, chunkCount)

	sem := make(chan bool, concurrency)
	for i := 0; i < chunkCount; i++ {
		sem <- true
		go func(i int) {
			defer func() { <-sem }()
			start := i * chunkSize
			end := min(start+chunkSize, n)

			opts := []renal.Option{
				renal.WithUnits(cohort.Units),
				renal.WithWarningOutput(&warningBufs[i]),
			}
			if ageOffset > 0 {
				opts = append(opts, renal.WithOffset(ageOffset))
			}
			chunkResults[i], chunkErrs[i] = f.compute(cohort.Slice(start, end), opts)
			bar.Increment()
		}(i)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
	progress.Wait()

	for _, err := range chunkErrs {
		if err != nil {
			return nil, nil, err
		}
	}

	columns := chunkResults[0]
	for _, chunk := range chunkResults[1:] {
		for j := range columns {
			columns[j].Values = append(columns[j].Values, chunk[j].Values...)
		}
	}

	seen := make(map[string]bool)
	var warnings []string
	for i := range warningBufs {
		for _, line := range strings.Split(strings.TrimRight(warningBufs[i].String(), "\n"), "\n") {
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			warnings = append(warnings, line)
		}
	}

	return columns, warnings, nil
}

func printEstimateReport(w io.Writer, cohort *data.Cohort, columns []data.ResultColumn, warnings []string, duration time.Duration) {
	fmt.Fprintf(w, "Observations  [total]                       %d\n", cohort.Len())
	for _, col := range columns {
		stats := util.CalculateDistributionStatistics(col.Values)
		fmt.Fprintf(w, "%-13s [mean, 50, 95, 99, min, max]  %s\n", col.Name, stats)
	}
	fmt.Fprintf(w, "Duration      [total]                       %s\n", duration.Round(time.Millisecond))

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		printWarnings(w, warnings)
	}
}

func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "Warnings:\n%s\n", util.Indent(2, strings.Join(warnings, "\n")))
}

var estimateCmd = &cobra.Command{
	Use:   "estimate [cohort-file]",
	Short: "Apply a kidney function formula to a CSV cohort",
	Long: `Reads a cohort of patient records from a CSV file, applies the chosen
formula to every observation and writes the estimates as a result CSV.

The measurement columns are located through a YAML mapping file; without one
the logical field names (id, creatinine, cystatin, age, sex, height, weight,
ethnicity) are expected as CSV headers. Columns a formula does not need may
be absent.`,
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

		start := time.Now()
		columns, warnings, err := evaluateCohort(f, cohort)
		if err != nil {
			return err
		}

		resultOut := io.Writer(os.Stdout)
		reportOut := io.Writer(os.Stderr)
		if outputFile != "" {
			file, err := util.CreateOutputFile(outputFile)
			if err != nil {
				return err
			}
			defer file.Close()
			resultOut = file
			reportOut = os.Stdout
		}

		if err := data.WriteResults(resultOut, cohort.IDs, columns); err != nil {
			return err
		}

		printEstimateReport(reportOut, cohort, columns, warnings, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVarP(&formulaName, "formula", "f", "ckid-u25-combined", "formula to apply")
	estimateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the result CSV to this file instead of stdout")
	estimateCmd.Flags().Float64Var(&ageOffset, "offset", 0, "years added to every age, for follow-up measurements")
	estimateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "emit the creatinine- and cystatin-based sub-estimates next to the mean")
	estimateCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "number of concurrent workers")
}
