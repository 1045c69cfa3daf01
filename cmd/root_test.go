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
	"os"
	"path/filepath"
	"testing"

	"github.com/samply/renalctl/renal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMapping_defaults(t *testing.T) {
	mappingFile = ""
	units = ""

	mapping, err := readMapping()

	require.NoError(t, err)
	assert.Equal(t, renal.US, mapping.Units)
	assert.Equal(t, "creatinine", mapping.Columns.Creatinine)
}

func TestReadMapping_unitsFlagOverridesMappingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yml")
	require.NoError(t, os.WriteFile(path, []byte("units: US\ncolumns:\n  creatinine: scr\n"), 0644))
	mappingFile = path
	units = "SI"
	defer func() { mappingFile = ""; units = "" }()

	mapping, err := readMapping()

	require.NoError(t, err)
	assert.Equal(t, renal.SI, mapping.Units)
	assert.Equal(t, "scr", mapping.Columns.Creatinine)
}

func TestReadMapping_missingMappingFile(t *testing.T) {
	mappingFile = filepath.Join(t.TempDir(), "nope.yml")
	defer func() { mappingFile = "" }()

	_, err := readMapping()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read the mapping file")
}
