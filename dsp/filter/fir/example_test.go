package fir_test

import (
	"fmt"

	"github.com/cwbudde/algo-sdr/dsp/filter/fir"
)

func ExampleFilter_Output() {
	// 3-tap moving average filter.
	f, _ := fir.New(3)
	copy(f.Taps(), []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})

	input := []complex128{0, 1, 2i, 3, 3, 3}
	for i, x := range input {
		f.Push(x)
		y := f.Output()
		fmt.Printf("y[%d] = %.4f%+.4fi\n", i, real(y), imag(y))
	}
	// Output:
	// y[0] = 0.0000+0.0000i
	// y[1] = 0.3333+0.0000i
	// y[2] = 0.3333+0.6667i
	// y[3] = 1.3333+0.6667i
	// y[4] = 2.0000+0.6667i
	// y[5] = 3.0000+0.0000i
}
