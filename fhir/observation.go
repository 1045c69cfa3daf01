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

// Package fhir renders kidney function estimates as FHIR® Observation
// resources so results can be loaded into a FHIR server next to the source
// records.
package fhir

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	fm "github.com/samply/golang-fhir-models/fhir-models/fhir"
)

const loincSystem = "http://loinc.org"

// ResultObservation builds a final Observation for one estimate, coded with
// the given LOINC code and carrying the estimating formula as method text.
// The subject references the patient by its cohort id.
func ResultObservation(patientID, loincCode, display, method, unit string, value float64) fm.Observation {
	subject := "Patient/" + patientID
	quantity := json.Number(strconv.FormatFloat(value, 'f', 1, 64))
	return fm.Observation{
		Status: fm.ObservationStatusFinal,
		Code: fm.CodeableConcept{
			Coding: []fm.Coding{
				{System: strPtr(loincSystem), Code: &loincCode, Display: &display},
			},
		},
		Subject: &fm.Reference{Reference: &subject},
		Method:  &fm.CodeableConcept{Text: &method},
		ValueQuantity: &fm.Quantity{
			Value:  &quantity,
			Unit:   &unit,
			System: strPtr("http://unitsofmeasure.org"),
			Code:   &unit,
		},
	}
}

// CollectionBundle wraps the given observations in a collection bundle with a
// random urn:uuid fullUrl per entry.
func CollectionBundle(observations []fm.Observation) (fm.Bundle, error) {
	bundle := fm.Bundle{
		Type:  fm.BundleTypeCollection,
		Entry: make([]fm.BundleEntry, 0, len(observations)),
	}
	for _, observation := range observations {
		observationBytes, err := json.Marshal(observation)
		if err != nil {
			return fm.Bundle{}, err
		}
		fullUrl, err := randomUrl()
		if err != nil {
			return fm.Bundle{}, err
		}
		bundle.Entry = append(bundle.Entry, fm.BundleEntry{
			FullUrl:  &fullUrl,
			Resource: observationBytes,
		})
	}
	return bundle, nil
}

func randomUrl() (string, error) {
	myUuid, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return "urn:uuid:" + myUuid.String(), nil
}

func strPtr(s string) *string {
	return &s
}

// UnmarshalObservations reads the observations back out of a collection
// bundle, skipping entries that are no observations.
func UnmarshalObservations(bundle fm.Bundle) ([]fm.Observation, error) {
	observations := make([]fm.Observation, 0, len(bundle.Entry))
	for i, entry := range bundle.Entry {
		var probe struct {
			ResourceType string `json:"resourceType"`
		}
		if err := json.Unmarshal(entry.Resource, &probe); err != nil {
			return nil, fmt.Errorf("error while reading bundle entry %d: %v", i, err)
		}
		if probe.ResourceType != "Observation" {
			continue
		}
		observation, err := fm.UnmarshalObservation(entry.Resource)
		if err != nil {
			return nil, fmt.Errorf("error while reading bundle entry %d: %v", i, err)
		}
		observations = append(observations, observation)
	}
	return observations, nil
}
