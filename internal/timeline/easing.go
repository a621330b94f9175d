package timeline

import (
	"math"
	"strings"
)

// Easing maps linear interval progress t in [0,1] to eased progress.
type Easing func(t float64) float64

func linear(t float64) float64 { return t }

func powerIn(n float64) Easing {
	return func(t float64) float64 { return math.Pow(t, n) }
}

func out(in Easing) Easing {
	return func(t float64) float64 { return 1 - in(1-t) }
}

func inOut(in Easing) Easing {
	return func(t float64) float64 {
		if t < 0.5 {
			return in(2*t) / 2
		}
		return 1 - in(2*(1-t))/2
	}
}

func expoIn(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

func sineIn(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

var easings = map[string]Easing{
	"linear":       linear,
	"none":         linear,
	"power1.in":    powerIn(2),
	"power1.out":   out(powerIn(2)),
	"power1.inout": inOut(powerIn(2)),
	"power2.in":    powerIn(3),
	"power2.out":   out(powerIn(3)),
	"power2.inout": inOut(powerIn(3)),
	"power3.in":    powerIn(4),
	"power3.out":   out(powerIn(4)),
	"power3.inout": inOut(powerIn(4)),
	"expo.in":      expoIn,
	"expo.out":     out(expoIn),
	"expo.inout":   inOut(expoIn),
	"sine.in":      sineIn,
	"sine.out":     out(sineIn),
	"sine.inout":   inOut(sineIn),
	// CSS-style aliases
	"easein":    powerIn(2),
	"easeout":   out(powerIn(2)),
	"easeinout": inOut(powerIn(2)),
}

// EaseByName returns the named easing curve. Names are case-insensitive;
// unknown or empty names fall back to linear.
func EaseByName(name string) Easing {
	if e, ok := easings[strings.ToLower(strings.TrimSpace(name))]; ok {
		return e
	}
	return linear
}
