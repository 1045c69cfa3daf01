package renal

import (
	"fmt"
)

// namedVector carries an input vector's name and length for broadcast
// checking. The name shows up in shape-mismatch errors.
type namedVector struct {
	name   string
	length int
}

// broadcastLength returns the common observation count of the given vectors.
// A vector participates either with the full observation count or with a
// single value that is broadcast against the longer vectors. Anything else is
// a usage error and reported with the names of the two offending inputs.
func broadcastLength(vectors ...namedVector) (int, error) {
	n := 1
	ref := ""
	for _, v := range vectors {
		if v.length == 1 || v.length == n {
			continue
		}
		if n == 1 {
			n = v.length
			ref = v.name
			continue
		}
		return 0, fmt.Errorf("mismatched vector lengths: %s has %d values, %s has %d values",
			ref, n, v.name, v.length)
	}
	return n, nil
}

func pick(v []float64, i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func pickSex(v []Sex, i int) Sex {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func pickBool(v []bool, i int) bool {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

// expand materializes a possibly length-1 vector at the full observation
// count so result tables carry equal-length columns.
func expand(v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = pick(v, i)
	}
	return out
}

// shiftedAges returns age with the follow-up offset applied, in a fresh
// slice so callers never see their input mutated.
func shiftedAges(age []float64, offset float64) []float64 {
	if offset == 0 {
		return age
	}
	shifted := make([]float64, len(age))
	for i, a := range age {
		shifted[i] = a + offset
	}
	return shifted
}
