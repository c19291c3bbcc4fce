package status

// Curve is a per-device volume calibration factor k in (0, 1).
// The zero value disables correction.
//
// The daemon's linear volume is bent so that the perceptual midpoint 0.5
// maps to k: ToPlayer converts perceptual to daemon volume, FromPlayer
// converts back.
type Curve float64

// Enabled reports whether c applies a correction.
func (c Curve) Enabled() bool {
	return c > 0 && c < 1
}

// ToPlayer maps a perceptual volume to the daemon's scale.
func (c Curve) ToPlayer(v float64) float64 {
	if !c.Enabled() {
		return v
	}
	return ToPlayer(v, float64(c))
}

// FromPlayer maps a daemon volume to the perceptual scale.
func (c Curve) FromPlayer(v float64) float64 {
	if !c.Enabled() {
		return v
	}
	return FromPlayer(v, float64(c))
}

// ToPlayer applies curve factor k to perceptual volume v.
func ToPlayer(v, k float64) float64 {
	if v < 0.5 {
		return v * k * 2
	}
	return k + (v-0.5)*(1-k)*2
}

// FromPlayer inverts ToPlayer for curve factor k.
func FromPlayer(v, k float64) float64 {
	if v < k {
		return (v / k) / 2
	}
	return 0.5 + (v-k)*0.5/(1-k)
}

// unsupportedVolume is reported when the daemon has no mixer so that
// sliders render centered.
const unsupportedVolume = 0.5

// DaemonVolume converts a perceptual volume to the daemon's 0-100 integer.
func (c Curve) DaemonVolume(v float64) int {
	v = min(max(v, 0), 1)
	return int(c.ToPlayer(v)*100 + 0.5)
}
