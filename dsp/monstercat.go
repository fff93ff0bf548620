package dsp

import "math"

// Monstercat spreads every column onto its neighbours, falling off by factor
// per column of distance, so a lone peak draws as a mound instead of a
// spike. A column is only ever raised. factor <= 1 leaves bins alone.
//
// https://github.com/karlstav/cava/blob/master/cava.c#L157
func Monstercat(bins []float64, factor float64) {
	if !(factor > 1) {
		return
	}

	// exp(d*log f) is f^d without a pow per pair
	vFactP := math.Log(factor)

	for xBin := range bins {
		for xTrgt := range bins {
			if xBin == xTrgt {
				continue
			}

			tmp := bins[xBin] / math.Exp(vFactP*math.Abs(float64(xBin-xTrgt)))

			if tmp > bins[xTrgt] {
				bins[xTrgt] = tmp
			}
		}
	}
}
