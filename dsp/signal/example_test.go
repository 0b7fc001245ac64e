package signal_test

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sdr/dsp/signal"
)

func ExampleGenerator_Tone() {
	g := signal.NewGenerator()
	x, err := g.Tone(0.25, 1, 5)
	if err != nil {
		panic(err)
	}

	// Quarter turns per sample.
	for _, v := range x {
		q := int(math.Round(cmplx.Phase(v) / (math.Pi / 2)))
		fmt.Print((q+4)%4, " ")
	}
	fmt.Println()

	// Output:
	// 0 1 2 3 0
}

func ExampleNormalize() {
	x, err := signal.Normalize([]complex128{-0.5, 0.25i, 1}, 0.8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", real(x[0]), imag(x[1]), real(x[2]))

	// Output:
	// -0.40 0.20 0.80
}
