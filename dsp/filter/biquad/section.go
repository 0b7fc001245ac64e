package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// IsZero reports whether c is the zero value returned by designers for
// invalid parameters.
func (c Coefficients) IsZero() bool {
	return c == Coefficients{}
}

// Section is a single biquad filter with coefficients and complex state.
type Section struct {
	Coefficients

	d0, d1 complex128
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x complex128) complex128 {
	b0, b1, b2 := complex(s.B0, 0), complex(s.B1, 0), complex(s.B2, 0)
	a1, a2 := complex(s.A1, 0), complex(s.A2, 0)

	y := b0*x + s.d0
	s.d0 = b1*x - a1*y + s.d1
	s.d1 = b2*x - a2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []complex128) {
	b0, b1, b2 := complex(s.B0, 0), complex(s.B1, 0), complex(s.B2, 0)
	a1, a2 := complex(s.A1, 0), complex(s.A2, 0)
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]complex128 {
	return [2]complex128{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]complex128) {
	s.d0 = state[0]
	s.d1 = state[1]
}
