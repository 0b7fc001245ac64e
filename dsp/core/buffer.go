package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Contents of a reused prefix are preserved; a fresh allocation is zeroed.
func EnsureLen[T any](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Zero sets all values in buf to their zero value.
func Zero[T any](buf []T) {
	var zero T
	for i := range buf {
		buf[i] = zero
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T any](dst, src []T) int {
	return copy(dst, src)
}

// SplitComplex writes the real and imaginary parts of src into re and im.
// Only min(len(src), len(re), len(im)) elements are written; the count is returned.
func SplitComplex(re, im []float64, src []complex128) int {
	n := min(len(src), len(re), len(im))
	for i := range n {
		re[i] = real(src[i])
		im[i] = imag(src[i])
	}
	return n
}

// JoinComplex is the inverse of SplitComplex.
func JoinComplex(dst []complex128, re, im []float64) int {
	n := min(len(dst), len(re), len(im))
	for i := range n {
		dst[i] = complex(re[i], im[i])
	}
	return n
}
