package analysis

import (
	"errors"
	"math"
)

var (
	ErrShortSeries = errors.New("analysis: series too short")
	ErrNoPeriod    = errors.New("analysis: no periodic component")
)

// MinSamples is the shortest series the period estimators accept.
const MinSamples = 8

// peakFraction is how close to the best correlation a local maximum must be
// to count as the fundamental period.
const peakFraction = 0.9

func center(series []float64) ([]float64, error) {
	if len(series) < MinSamples {
		return nil, ErrShortSeries
	}
	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	out := make([]float64, len(series))
	var energy float64
	for i, v := range series {
		out[i] = v - mean
		energy += out[i] * out[i]
	}
	if energy == 0 {
		return nil, ErrNoPeriod
	}
	return out, nil
}

// Autocorrelation returns the autocorrelation at lags 0..maxLag, each lag
// averaged over its overlap and normalised by the variance so that a
// periodic series scores close to 1 at its period. Lags beyond
// len(series)-2 are not computed.
func Autocorrelation(series []float64, maxLag int) []float64 {
	centered, err := center(series)
	if err != nil {
		return nil
	}
	if maxLag > len(series)-2 {
		maxLag = len(series) - 2
	}

	n := len(centered)
	var variance float64
	for _, v := range centered {
		variance += v * v
	}
	variance /= float64(n)

	ac := make([]float64, maxLag+1)
	for lag := range ac {
		var sum float64
		for i := 0; i < n-lag; i++ {
			sum += centered[i] * centered[i+lag]
		}
		ac[lag] = sum / float64(n-lag) / variance
	}
	return ac
}

// DominantPeriod returns the period of series in units of dt: the first
// autocorrelation peak close to the strongest one, refined by a parabola
// through its neighbours. Lags up to half the series length are searched.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if _, err := center(series); err != nil {
		return 0, err
	}

	ac := Autocorrelation(series, len(series)/2)
	if len(ac) < 3 {
		return 0, ErrShortSeries
	}

	best := math.Inf(-1)
	for lag := 2; lag < len(ac)-1; lag++ {
		if ac[lag] > best {
			best = ac[lag]
		}
	}
	if best <= 0 {
		return 0, ErrNoPeriod
	}

	for lag := 2; lag < len(ac)-1; lag++ {
		c := ac[lag]
		if c < ac[lag-1] || c < ac[lag+1] || c < peakFraction*best {
			continue
		}
		return (float64(lag) + vertex(ac[lag-1], c, ac[lag+1])) * dt, nil
	}

	return 0, ErrNoPeriod
}

// vertex returns the offset of the extremum of the parabola through
// (-1, a), (0, b), (1, c).
func vertex(a, b, c float64) float64 {
	den := a - 2*b + c
	if den == 0 {
		return 0
	}
	return 0.5 * (a - c) / den
}

// Crossings returns the fractional sample positions where series rises
// through level.
func Crossings(series []float64, level float64) []float64 {
	out := make([]float64, 0)
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			out = append(out, float64(i-1)+frac)
		}
	}
	return out
}

// MeanInterval is the average spacing of crossings, or 0 with fewer than two.
func MeanInterval(crossings []float64) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}
