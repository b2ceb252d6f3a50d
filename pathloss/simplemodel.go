package pathloss

import "math"

// SimplePLModel covers the Exponential and FreeSpace types.
type SimplePLModel struct {
	ModelSetting
}

func (p *SimplePLModel) LossInDb(distance float64) (float64, bool) {
	if !(distance > 0) {
		return math.NaN(), false
	}
	if distance <= p.CutOffDistance {
		return 0, true
	}
	switch p.Type {
	case Exponential:
		// L = 10 n log10(d) + C
		result := 10.0*p.Exponent*math.Log10(distance) + p.Intercept
		return result, finite(result)
	case FreeSpace:
		// L = 20 log10(4 pi d / lambda)
		factor := 4 * math.Pi / p.Lambda()
		result := 20 * math.Log10(factor*distance)
		return result, finite(result)
	default:
		return math.NaN(), false
	}
}
