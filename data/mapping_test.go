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
	"testing"

	"github.com/samply/renalctl/renal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadColumnMapping(t *testing.T) {
	mapping, err := ReadColumnMapping([]byte(`
units: SI
columns:
  id: patient
  creatinine: scr_umol_l
  age: age_years
`))

	require.NoError(t, err)
	assert.Equal(t, renal.SI, mapping.Units)
	assert.Equal(t, "patient", mapping.Columns.ID)
	assert.Equal(t, "scr_umol_l", mapping.Columns.Creatinine)
	assert.Equal(t, "age_years", mapping.Columns.Age)
	assert.Equal(t, "sex", mapping.Columns.Sex, "unmapped fields keep their default column name")
}

func TestReadColumnMapping_invalidYAML(t *testing.T) {
	_, err := ReadColumnMapping([]byte("columns: ["))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error while parsing the column mapping")
}

func TestDefaultColumnMapping(t *testing.T) {
	mapping := DefaultColumnMapping()

	assert.Equal(t, renal.US, mapping.Units)
	assert.Equal(t, "creatinine", mapping.Columns.Creatinine)
	assert.Equal(t, "cystatin", mapping.Columns.Cystatin)
}
