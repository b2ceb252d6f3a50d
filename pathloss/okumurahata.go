package pathloss

import "math"

// OkumuraHataModel is the urban Okumura-Hata model, valid for 150 MHz to
// 2 GHz. Heights are read from the embedded setting.
type OkumuraHataModel struct {
	ModelSetting
}

func (w *OkumuraHataModel) LossInDb(distanceM float64) (float64, bool) {
	FreqMHz := w.FreqHz / 1.0e6
	distance := distanceM / 1.0e3
	hb, hm := w.TxHeight, w.RxHeight

	if !(distance > 0) || FreqMHz < 150 || FreqMHz >= 2000 {
		return math.NaN(), false
	}
	if distance <= 0.05 {
		// free space in km/MHz units below 50 m
		return 20*math.Log10(distance) + 20*math.Log10(FreqMHz) + 32.45, true
	}

	var result float64
	if FreqMHz < 1500 {
		var Ch float64
		if FreqMHz <= 200.0 {
			Ch = 8.29*math.Pow(math.Log10(1.54*hm), 2) - 1.1
		} else {
			Ch = 3.2*math.Pow(math.Log10(11.75*hm), 2) - 4.97
		}
		result = 69.55 + 26.16*math.Log10(FreqMHz) - 13.82*math.Log10(hb) - Ch + (44.9-6.55*math.Log10(hb))*math.Log10(distance)
	} else {
		a := (1.1*math.Log10(FreqMHz)-0.7)*hm - (1.56*math.Log10(FreqMHz) - 0.8)
		result = 46.3 + 33.9*math.Log10(FreqMHz) - 13.82*math.Log10(hb) - a + (44.9-6.55*math.Log10(hb))*math.Log10(distance) + 3
	}
	return result, finite(result)
}
