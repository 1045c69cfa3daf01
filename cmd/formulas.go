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

	"github.com/spf13/cobra"
)

func maxNameLen(names []string) int {
	maxLen := 0
	for _, name := range names {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	return maxLen
}

// formulasCmd represents the formulas command
var formulasCmd = &cobra.Command{
	Use:   "formulas",
	Short: "Lists the supported formulas",
	Run: func(cmd *cobra.Command, args []string) {
		names := formulaNames()
		width := maxNameLen(names)
		for _, name := range names {
			fmt.Printf("%-*s : %s\n", width, name, formulas[name].description)
		}
	},
}

func init() {
	rootCmd.AddCommand(formulasCmd)
}
