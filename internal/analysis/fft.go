package analysis

import (
	"math"
	"math/cmplx"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FFT returns the discrete Fourier transform of data zero-padded to the next
// power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	out := make([]complex128, n)
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i, v := range data {
		out[reverse(i, bits)] = complex(v, 0)
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for lo := 0; lo < n; lo += size {
			w := complex(1, 0)
			for k := lo; k < lo+half; k++ {
				t := w * out[k+half]
				out[k+half] = out[k] - t
				out[k] += t
				w *= step
			}
		}
	}
	return out
}

// reverse mirrors the low bits of i.
func reverse(i, bits int) int {
	r := 0
	for b := 0; b < bits; b++ {
		r = r<<1 | i&1
		i >>= 1
	}
	return r
}

// PowerSpectrum returns the magnitude of the first half of FFT(data).
func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// SpectralPeriod estimates the period from the strongest non-DC bin of the
// mean-removed spectrum. Resolution is limited to the padded length divided
// by an integer, so it is a coarse estimate.
func SpectralPeriod(series []float64, dt float64) (float64, error) {
	centered, err := center(series)
	if err != nil {
		return 0, err
	}

	ps := PowerSpectrum(centered)
	best := 0
	for k := 1; k < len(ps); k++ {
		if best == 0 || ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 {
		return 0, ErrNoPeriod
	}

	return float64(nextPow2(len(series))) / float64(best) * dt, nil
}
