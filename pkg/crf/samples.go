package crf

import "fmt"

// Samples holds pixel values for a set of scene points, indexed
// [sample][exposure][channel]. Every scene point is observed in every
// exposure.
type Samples [][][]int

func (s Samples)NumSamples() int { return len(s) }

func (s Samples)NumExposures() int {
	if len(s) == 0 { return 0 }
	return len(s[0])
}

func (s Samples)NumChannels() int {
	if len(s) == 0 || len(s[0]) == 0 { return 0 }
	return len(s[0][0])
}

// Channel extracts the N×P sample matrix for channel c.
func (s Samples)Channel(c int) [][]int {
	z := make([][]int, len(s))
	for i := range s {
		z[i] = make([]int, len(s[i]))
		for j := range s[i] {
			z[i][j] = s[i][j][c]
		}
	}
	return z
}

// Validate checks the tensor is rectangular, with the expected number
// of exposures and channels, and that every value lies in the domain.
func (s Samples)Validate(numExposures, numChannels int, d Domain) error {
	for i := range s {
		if len(s[i]) != numExposures {
			return fmt.Errorf("sample %d has %d exposures, want %d: %w", i, len(s[i]), numExposures, ErrShapeMismatch)
		}
		for j := range s[i] {
			if len(s[i][j]) != numChannels {
				return fmt.Errorf("sample %d exposure %d has %d channels, want %d: %w",
					i, j, len(s[i][j]), numChannels, ErrShapeMismatch)
			}
			for c, z := range s[i][j] {
				if !d.Contains(z) {
					return fmt.Errorf("sample %d exposure %d channel %d value %d outside %s: %w", i, j, c, z, d, ErrShapeMismatch)
				}
			}
		}
	}
	return nil
}
