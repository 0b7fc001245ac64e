package testutil

import "io"

// SliceSource serves samples from a slice and reports io.EOF once it runs
// dry. Every call to Read is recorded.
type SliceSource struct {
	Data  []complex128
	pos   int
	Calls []int
}

// Read copies the next samples into dst.
func (s *SliceSource) Read(dst []complex128) (int, error) {
	s.Calls = append(s.Calls, len(dst))
	n := copy(dst, s.Data[s.pos:])
	s.pos += n
	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

// Consumed returns the number of samples handed out.
func (s *SliceSource) Consumed() int {
	return s.pos
}

// ShortSource returns Limit samples in total and then keeps returning short
// counts with a nil error, like a transport that ran dry without failing.
type ShortSource struct {
	Limit int
	Value complex128
	n     int
}

// Read fills dst up to the remaining limit.
func (s *ShortSource) Read(dst []complex128) (int, error) {
	n := min(len(dst), s.Limit-s.n)
	if n < 0 {
		n = 0
	}
	for i := range n {
		dst[i] = s.Value
	}
	s.n += n
	return n, nil
}

// ErrSource fails every read with Err.
type ErrSource struct {
	Err error
}

// Read returns zero samples and Err.
func (s ErrSource) Read([]complex128) (int, error) {
	return 0, s.Err
}
