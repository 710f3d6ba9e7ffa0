package rating

import "math"

// Stars は 1〜5 の星評価（0.5刻み）
type Stars float64

const (
	Min Stars = 1
	Max Stars = 5
)

// Valid は範囲内かつ0.5刻みであるかを返す
func (s Stars) Valid() bool {
	if math.IsNaN(float64(s)) || s < Min || s > Max {
		return false
	}
	doubled := float64(s) * 2
	return doubled == math.Trunc(doubled)
}

// Float64 はfloat64として返す
func (s Stars) Float64() float64 {
	return float64(s)
}

// Clamp は値を最も近い0.5刻みに丸め、[1,5] に収める
func Clamp(v float64) Stars {
	if math.IsNaN(v) {
		return Min
	}
	rounded := math.Round(v*2) / 2
	switch {
	case rounded < float64(Min):
		return Min
	case rounded > float64(Max):
		return Max
	}
	return Stars(rounded)
}
