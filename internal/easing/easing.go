// Package easing maps linear animation progress onto eased progress.
package easing

// Func maps linear progress in [0,1] to eased progress in [0,1].
type Func func(p float64) float64

// EaseOutQuad starts fast and decelerates: 1 - (1-p)^2.
func EaseOutQuad(p float64) float64 {
	p = clamp(p)
	inv := 1 - p
	return 1 - inv*inv
}

// EaseOutCubic is a steeper variant of EaseOutQuad: 1 - (1-p)^3.
func EaseOutCubic(p float64) float64 {
	p = clamp(p)
	inv := 1 - p
	return 1 - inv*inv*inv
}

// Linear returns p unchanged (clamped).
func Linear(p float64) float64 {
	return clamp(p)
}

// Names lists the easing names accepted by ByName.
func Names() []string {
	return []string{"quad", "cubic", "linear"}
}

// ByName resolves an easing function by name.
func ByName(name string) (Func, bool) {
	switch name {
	case "quad", "":
		return EaseOutQuad, true
	case "cubic":
		return EaseOutCubic, true
	case "linear":
		return Linear, true
	default:
		return nil, false
	}
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
