package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes scalar values from colors.
type Kind int

const (
	KindScalar Kind = iota
	KindColor
)

// Color is an RGBA color with 0-255 channels and alpha in [0,1].
type Color struct {
	R, G, B float64
	A       float64
}

// Value is an animatable property value.
type Value struct {
	Kind  Kind
	N     float64
	Color Color
}

// Scalar returns a numeric value.
func Scalar(n float64) Value { return Value{Kind: KindScalar, N: n} }

// RGBA returns a color value.
func RGBA(r, g, b, a float64) Value {
	return Value{Kind: KindColor, Color: Color{R: r, G: g, B: b, A: a}}
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (Value, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Value{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Value{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGBA(float64(n>>24&0xff), float64(n>>16&0xff), float64(n>>8&0xff), float64(n&0xff)/255), nil
}

func (v Value) String() string {
	if v.Kind == KindColor {
		return fmt.Sprintf("rgba(%d, %d, %d, %.3g)", int(v.Color.R+0.5), int(v.Color.G+0.5), int(v.Color.B+0.5), v.Color.A)
	}
	return strconv.FormatFloat(v.N, 'f', -1, 64)
}

// MarshalJSON renders scalars as numbers and colors as CSS rgba() strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindColor {
		return []byte(strconv.Quote(v.String())), nil
	}
	return []byte(strconv.FormatFloat(v.N, 'f', -1, 64)), nil
}

// UnmarshalYAML accepts a number or a "#hex" color.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a number or color", node.Line)
	}
	if strings.HasPrefix(node.Value, "#") {
		c, err := ParseColor(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = c
		return nil
	}
	n, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
	}
	*v = Scalar(n)
	return nil
}

func lerpf(a, b, t float64) float64 { return a + (b-a)*t }

func lerp(a, b Value, t float64) Value {
	if a.Kind == KindColor {
		return RGBA(
			lerpf(a.Color.R, b.Color.R, t),
			lerpf(a.Color.G, b.Color.G, t),
			lerpf(a.Color.B, b.Color.B, t),
			lerpf(a.Color.A, b.Color.A, t),
		)
	}
	return Scalar(lerpf(a.N, b.N, t))
}
