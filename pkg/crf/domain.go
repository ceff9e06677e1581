package crf

import "fmt"

// A Domain is the closed range of integer pixel values [Min, Max] a
// channel can take, e.g. [0, 255] for 8-bit images.
type Domain struct {
	Min int
	Max int
}

// DomainForBits returns [0, 2^bits-1].
func DomainForBits(bits int) Domain {
	return Domain{Min: 0, Max: (1 << uint(bits)) - 1}
}

func (d Domain)Len() int             { return d.Max - d.Min + 1 }
func (d Domain)Contains(z int) bool  { return z >= d.Min && z <= d.Max }
func (d Domain)Index(z int) int      { return z - d.Min }

// MidIndex is the curve index anchored to zero by the solver.
func (d Domain)MidIndex() int        { return d.Len() / 2 }

func (d Domain)String() string {
	return fmt.Sprintf("[%d,%d]", d.Min, d.Max)
}

func (d Domain)Validate() error {
	if d.Len() < 3 {
		return fmt.Errorf("domain %s needs at least 3 levels: %w", d, ErrShapeMismatch)
	}
	return nil
}
